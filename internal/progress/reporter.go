// Package progress reports page rendering progress during a build.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Reporter receives one Start, an Update per page and a final Finish.
type Reporter interface {
	Start(total int)
	Update(current int, page string)
	Finish()
}

// NewReporter picks a line-oriented reporter under CI and a progress bar
// otherwise. Both write to stderr so stdout stays clean.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{Out: os.Stderr}
	}
	return &BarReporter{Out: os.Stderr}
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Start(int)          {}
func (Nop) Update(int, string) {}
func (Nop) Finish()            {}

// BarReporter draws a terminal progress bar labelled with the current page.
type BarReporter struct {
	Out io.Writer
	bar *progressbar.ProgressBar
}

func (r *BarReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetDescription("Building manual"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Update(current int, page string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(page)
	_ = r.bar.Set(current)
}

func (r *BarReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints one line per page, suitable for CI logs.
type LineReporter struct {
	Out   io.Writer
	total int
}

func (r *LineReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.Out, "Building manual: %d pages\n", total)
}

func (r *LineReporter) Update(current int, page string) {
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", current, r.total, page)
}

func (r *LineReporter) Finish() {
	fmt.Fprintln(r.Out, "Manual build complete")
}

// LogReporter sends progress to a logger at debug level, for builds that
// run in the background such as live-reload rebuilds.
type LogReporter struct {
	Log   *zap.Logger
	total int
	start time.Time
}

func (r *LogReporter) Start(total int) {
	r.total = total
	r.start = time.Now()
	r.Log.Debug("build started", zap.Int("pages", total))
}

func (r *LogReporter) Update(current int, page string) {
	r.Log.Debug("rendering page", zap.String("page", page), zap.Int("n", current), zap.Int("of", r.total))
}

func (r *LogReporter) Finish() {
	r.Log.Debug("build finished", zap.Int("pages", r.total), zap.Duration("elapsed", time.Since(r.start)))
}
