// Package console renders scan and comparison progress on a terminal.
package console

import (
	"fmt"
	"github.com/agamayoga/fsscan/internal/core"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"io"
	"os"
	"strings"
)

// DefaultWidth is the number of cells of the bar.
const DefaultWidth = 40

var spinner = []rune{'\\', '|', '/', '-'}

// Bar is a single-line progress bar redrawn in place with a carriage return:
//
//	   1.5GB     12,345 [=======                                 ] 17.5% |
type Bar struct {
	out     io.Writer
	width   int
	next    int
	lastLen int
}

var _ core.ProgressSink = (*Bar)(nil)

// NewBar returns a bar of the given width writing to out.
func NewBar(out io.Writer, width int) *Bar {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Bar{out: out, width: width}
}

// Update redraws the bar.
func (b *Bar) Update(percent float64, current int64, count int64) {
	filled := int(percent / 100 * float64(b.width))
	if filled < 0 {
		filled = 0
	}
	if filled > b.width {
		filled = b.width
	}

	joker := spinner[b.next]
	b.next = (b.next + 1) % len(spinner)

	line := fmt.Sprintf("%10s %10s [%s%s] %s%% %c",
		core.BytesToString(current),
		humanize.Comma(count),
		strings.Repeat("=", filled),
		strings.Repeat(" ", b.width-filled),
		core.FormatPercent(percent),
		joker)

	// blank out the tail of a longer previous line
	pad := ""
	if n := b.lastLen - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	b.lastLen = len(line)

	_, _ = fmt.Fprint(b.out, "\r"+line+pad)
}

// Finish ends the line of the bar.
func (b *Bar) Finish() {
	if b.lastLen > 0 {
		_, _ = fmt.Fprintln(b.out)
	}
}

// Progress is a progress sink that can be finished once the run is over.
type Progress interface {
	core.ProgressSink
	Finish()
}

type quiet struct {
	core.NoopProgress
}

func (quiet) Finish() {}

// NewProgress returns a bar on f when f is a terminal, and a sink that discards every
// update otherwise so redirected output is not filled with redraws.
func NewProgress(f *os.File) Progress {
	if isTerminal(f) {
		return NewBar(f, DefaultWidth)
	}
	return quiet{}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
