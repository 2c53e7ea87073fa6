package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// StageProgress renders one progress bar per collection pass
type StageProgress struct {
	writer      io.Writer
	bar         *progressbar.ProgressBar
	description string
}

// NewStageProgress creates a progress reporter writing to stderr. A quiet
// reporter draws nothing.
func NewStageProgress(quiet bool) *StageProgress {
	var w io.Writer = os.Stderr
	if quiet {
		w = io.Discard
	}
	return NewStageProgressWithWriter(w)
}

// NewStageProgressWithWriter creates a progress reporter writing to w
func NewStageProgressWithWriter(w io.Writer) *StageProgress {
	return &StageProgress{writer: w}
}

// Start begins a bar of total parents
func (p *StageProgress) Start(description string, total int) {
	p.Finish()
	p.description = description
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Advance moves the bar by one parent and shows its label
func (p *StageProgress) Advance(label string) {
	if p.bar == nil {
		return
	}
	if label != "" {
		p.bar.Describe(fmt.Sprintf("[cyan]%s[reset] [yellow]%s[reset]", p.description, label))
	}
	_ = p.bar.Add(1)
}

// Finish completes the current bar, if any
func (p *StageProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(p.writer)
	p.bar = nil
}
