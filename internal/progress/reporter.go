package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress while documents are ingested.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a CIReporter when running under CI and a
// TerminalReporter otherwise.
func NewReporter() Reporter {
	if isCI() {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{}
}

func isCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != ""
}

// TerminalReporter draws a progress bar on stderr.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Ingesting documents"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(message)
	_ = r.bar.Set(current)
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter writes one line per ingested file.
type CIReporter struct {
	Out   io.Writer
	total int
	done  int
}

func (r *CIReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stderr
	}
	return r.Out
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.out(), "Ingesting %d documents\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	r.done = current
	fmt.Fprintf(r.out(), "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.out(), "Ingestion complete (%d/%d)\n", r.done, r.total)
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(int)          {}
func (Nop) Update(int, string) {}
func (Nop) Finish()            {}
