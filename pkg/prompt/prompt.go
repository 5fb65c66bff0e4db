// Package prompt implements the console interaction of the interactive
// mode: line prompts, yes/no gates, the "press space" gate, directory
// selection and the interactive executable selector.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// keyCtrlC arrives as a byte while the terminal is in raw mode
const keyCtrlC = 0x03

// ErrInterrupted is returned when the user presses Ctrl-C at a key gate
var ErrInterrupted = errors.New(errors.ErrInvalidInput, "interrupted")

// Prompter reads answers from in and writes questions to out
type Prompter struct {
	in     *bufio.Reader
	tty    *os.File
	out    io.Writer
	logger zerolog.Logger
}

// New creates a Prompter. When in is a terminal, key gates read single
// keystrokes in raw mode; otherwise they consume a line.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logging.GetLogger("prompt"),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = f
	}
	return p
}

// Printf writes to the prompter's output
func (p *Prompter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

// Println writes a line to the prompter's output
func (p *Prompter) Println(args ...interface{}) {
	fmt.Fprintln(p.out, args...)
}

// Line asks question and returns the trimmed answer. Surrounding double
// quotes are removed, as pasted Windows paths often carry them. io.EOF is
// returned when input ends before a newline with nothing typed.
func (p *Prompter) Line(question string) (string, error) {
	fmt.Fprint(p.out, question)
	text, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(text), `"`), nil
}

// Confirm asks a y/n question; an empty answer takes def
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}
	for {
		answer, err := p.Line(fmt.Sprintf("%s %s: ", question, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// Choose shows a numbered list and returns the zero-based index picked.
// With allowSkip, 0 declines and ok is false.
func (p *Prompter) Choose(question string, options []string, allowSkip bool) (index int, ok bool, err error) {
	if len(options) == 0 {
		return 0, false, errors.New(errors.ErrInvalidInput, "nothing to choose from")
	}
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, o)
	}
	rangeHint := fmt.Sprintf("1-%d", len(options))
	if allowSkip {
		rangeHint += ", 0=skip"
	}
	for {
		answer, err := p.Line(fmt.Sprintf("%s (%s): ", question, rangeHint))
		if err != nil {
			return 0, false, err
		}
		n, convErr := strconv.Atoi(answer)
		switch {
		case convErr != nil:
			fmt.Fprintln(p.out, "Please enter a number.")
		case n == 0 && allowSkip:
			return 0, false, nil
		case n >= 1 && n <= len(options):
			return n - 1, true, nil
		default:
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(options))
		}
	}
}

// WaitKey shows message and blocks until the space bar is pressed. Without
// a terminal, any line will do.
func (p *Prompter) WaitKey(message string) error {
	fmt.Fprint(p.out, message)
	defer fmt.Fprintln(p.out)

	if p.tty == nil {
		_, err := p.in.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		return err
	}

	fd := int(p.tty.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Raw mode unavailable, reading a line")
		_, err = p.in.ReadString('\n')
		return err
	}
	defer func() {
		if err := term.Restore(fd, state); err != nil {
			p.logger.Warn().Err(err).Msg("Failed to restore terminal state")
		}
	}()

	buf := make([]byte, 1)
	for {
		if _, err := p.tty.Read(buf); err != nil {
			return err
		}
		switch buf[0] {
		case ' ':
			return nil
		case keyCtrlC:
			return ErrInterrupted
		}
	}
}
