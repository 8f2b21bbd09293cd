package ingest

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ziadkadry99/careerctx/internal/dateinfer"
	"github.com/ziadkadry99/careerctx/internal/documents"
)

// FilenameInfo is what the YYYY-MM-DD_Type_Company.ext naming convention
// carries.
type FilenameInfo struct {
	Date    time.Time
	HasDate bool
	Type    documents.Type
	HasType bool
	Company string
}

// ParseFilename reads the naming convention from name. The boolean is true
// when the leading segment is a date, which is what makes the name
// conventional. Type and company are filled even without a date.
func ParseFilename(name string) (FilenameInfo, bool) {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, "_")

	var info FilenameInfo
	if len(parts) < 2 {
		return info, false
	}
	if d, ok := dateinfer.FromFilename(parts[0]); ok {
		info.Date, info.HasDate = d, true
	}
	if t := strings.TrimSpace(parts[1]); t != "" {
		info.Type, info.HasType = documents.ParseType(t), true
	}
	if len(parts) >= 3 {
		info.Company = strings.Join(parts[2:], "_")
	}
	return info, info.HasDate
}

var typeSegments = map[documents.Type]string{
	documents.TypeCV:            "CV",
	documents.TypeCoverLetter:   "Cover-Letter",
	documents.TypeProfileImport: "LinkedIn",
	documents.TypeOther:         "Other",
}

var (
	companyStrip = regexp.MustCompile(`[^\w\s-]`)
	companyDash  = regexp.MustCompile(`[-\s]+`)
)

// GenerateFilename builds a conventional filename. company may be empty and
// ext defaults to "pdf".
func GenerateFilename(date time.Time, typ documents.Type, company, ext string) string {
	seg, ok := typeSegments[typ]
	if !ok {
		seg = typeSegments[documents.TypeOther]
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "pdf"
	}

	name := date.Format("2006-01-02") + "_" + seg
	if c := cleanCompany(company); c != "" {
		name += "_" + c
	}
	return name + "." + ext
}

func cleanCompany(company string) string {
	c := companyStrip.ReplaceAllString(company, "")
	c = companyDash.ReplaceAllString(c, "-")
	return strings.Trim(c, "-")
}
