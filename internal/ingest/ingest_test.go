package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ziadkadry99/careerctx/internal/db"
	"github.com/ziadkadry99/careerctx/internal/documents"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func setupTestStore(t *testing.T) *documents.Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return documents.NewStore(database)
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name        string
		wantOK      bool
		wantDate    time.Time
		wantType    documents.Type
		wantCompany string
	}{
		{"2025-05-01_CV_Data-Science.pdf", true, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), documents.TypeCV, "Data-Science"},
		{"2024-10-21_Cover-Letter_Lookahead.pdf", true, time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC), documents.TypeCoverLetter, "Lookahead"},
		{"2023-09-01_Resume.txt", true, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), documents.TypeCV, ""},
		{"2023-09-01_LinkedIn_Big_Co.md", true, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), documents.TypeProfileImport, "Big_Co"},
		{"notes_CV_Acme.txt", false, time.Time{}, documents.TypeCV, "Acme"},
		{"plain.txt", false, time.Time{}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := ParseFilename(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !info.Date.Equal(tt.wantDate) {
				t.Errorf("date = %v, want %v", info.Date, tt.wantDate)
			}
			if info.Type != tt.wantType {
				t.Errorf("type = %q, want %q", info.Type, tt.wantType)
			}
			if info.Company != tt.wantCompany {
				t.Errorf("company = %q, want %q", info.Company, tt.wantCompany)
			}
		})
	}
}

func TestGenerateFilename(t *testing.T) {
	d := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		typ     documents.Type
		company string
		ext     string
		want    string
	}{
		{documents.TypeCV, "Acme Corp!", "pdf", "2024-03-07_CV_Acme-Corp.pdf"},
		{documents.TypeCoverLetter, "", ".txt", "2024-03-07_Cover-Letter.txt"},
		{documents.TypeProfileImport, "  Big -- Co ", "", "2024-03-07_LinkedIn_Big-Co.pdf"},
		{"mystery", "X", "md", "2024-03-07_Other_X.md"},
	}
	for _, tt := range tests {
		if got := GenerateFilename(d, tt.typ, tt.company, tt.ext); got != tt.want {
			t.Errorf("GenerateFilename(%q, %q) = %q, want %q", tt.typ, tt.company, got, tt.want)
		}
	}
}

func TestGenerateThenParse(t *testing.T) {
	d := time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)
	name := GenerateFilename(d, documents.TypeCoverLetter, "Initech", "txt")
	info, ok := ParseFilename(name)
	if !ok || !info.Date.Equal(d) || info.Type != documents.TypeCoverLetter || info.Company != "Initech" {
		t.Errorf("round trip of %q gave %+v ok=%v", name, info, ok)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "docs/2024-01-01_CV_Acme.txt", "cv")
	b := writeFile(t, dir, "docs/letters/letter.md", "letter")
	writeFile(t, dir, "docs/.git/config", "ignored")
	writeFile(t, dir, "docs/skip.log", "ignored")

	got, err := Collect([]string{
		filepath.Join(dir, "docs", "**", "*"),
		a,
	}, []string{"*.log"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{a, b}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCollectBadPattern(t *testing.T) {
	if _, err := Collect([]string{"[unclosed"}, nil); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestIngestFiles(t *testing.T) {
	dir := t.TempDir()
	cv := writeFile(t, dir, "2024-01-10_CV_Acme.txt", "Senior data scientist. Built forecasting models.")
	letter := writeFile(t, dir, "letter.md", "Dear hiring manager, I am applying.")
	empty := writeFile(t, dir, "empty.txt", "   \n")
	bin := writeFile(t, dir, "image.txt", "PNG\x00\x01\x02")

	store := setupTestStore(t)
	in := New(store, nil)
	at := time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)

	res, err := in.Files(context.Background(), []string{cv, letter, empty, bin}, Options{IngestedAt: at})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(res.Created) != 2 {
		t.Fatalf("expected 2 created, got %d", len(res.Created))
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected 2 skipped, got %+v", res.Skipped)
	}
	if res.Created[0].Type != documents.TypeCV || res.Created[0].Filename != "2024-01-10_CV_Acme.txt" {
		t.Errorf("unexpected first document %+v", res.Created[0])
	}
	if res.Created[1].Type != documents.TypeOther {
		t.Errorf("expected other for unconventional name, got %s", res.Created[1].Type)
	}

	docs, err := store.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 stored documents, got %d", len(docs))
	}
	for _, d := range docs {
		if !d.IngestedAt.Equal(at) {
			t.Errorf("ingested_at = %v, want %v", d.IngestedAt, at)
		}
	}
}

func TestIngestForcedType(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "2024-01-10_CV_Acme.txt", "text")
	res, err := New(setupTestStore(t), nil).Files(context.Background(), []string{p}, Options{Type: "linkedin"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if res.Created[0].Type != documents.TypeProfileImport {
		t.Errorf("expected forced profile_import, got %s", res.Created[0].Type)
	}
}

func TestIngestTooLarge(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "big.txt", "0123456789")
	res, err := New(setupTestStore(t), nil).Files(context.Background(), []string{p}, Options{MaxFileSize: 4})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(res.Created) != 0 || len(res.Skipped) != 1 {
		t.Errorf("expected file skipped, got %+v", res)
	}
}

func TestIngestCancelled(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.txt", "text")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(setupTestStore(t), nil).Files(ctx, []string{p}, Options{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
