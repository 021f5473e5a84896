package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress shows a bar over the input files of a command
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	current   string
}

var nameWidth = 24

// NewProgress creates a progress bar for total files. It stays silent when
// disabled or when stderr is not a terminal.
func NewProgress(total int, enabled bool) *Progress {
	p := &Progress{}
	if !enabled || !isTerminal() {
		return p
	}

	fmt.Fprintln(os.Stderr)

	p.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(48),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				return shorten(p.current, nameWidth)
			}, decor.WC{W: nameWidth, C: decor.DindentRight}),
			decor.CountersNoUnit("%d/%d", decor.WC{W: 8, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Elapsed(decor.ET_STYLE_GO),
		),
	)

	return p
}

// Start marks the file that is being processed
func (p *Progress) Start(path string) {
	p.current = filepath.Base(path)
}

// Done advances the bar by one file
func (p *Progress) Done() {
	if p.bar == nil {
		return
	}
	p.bar.Increment()
}

// Finish stops the bar and waits for the final render
func (p *Progress) Finish() {
	if p.container == nil {
		return
	}

	// Abort the bar if files were skipped so Wait does not block
	if !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.container.Wait()

	fmt.Fprintln(os.Stderr)
}

func shorten(s string, width int) string {
	if len(s) > width {
		return s[:width-2] + ".."
	}
	return s
}

// isTerminal checks if stderr is a terminal (TTY)
func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
