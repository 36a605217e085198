package lookup

import (
	"bufio"
	"fmt"
	"io"

	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/utils"
)

// LinePrompter lists candidate addresses and reads a line from In.
// Passwords are never shown.
type LinePrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

// NewLinePrompter returns a LinePrompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{In: bufio.NewReader(in), Out: out}
}

// Choose implements Prompter.
func (p *LinePrompter) Choose(a *Ambiguity) (string, error) {
	fmt.Fprintf(p.Out, "Multiple hosts match %s:\n", ui.Highlight.Sprint(a.Query.Address))
	for i, c := range a.Candidates {
		fmt.Fprintf(p.Out, "    %d. %s\n", i+1, c.Host)
	}

	if a.Default > 0 {
		fmt.Fprintf(p.Out, "Choose [%d]: ", a.Default)
	} else {
		fmt.Fprint(p.Out, "Choose: ")
	}

	return utils.ReadLine(p.In)
}
