package utilities

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter writes prompts and reads single lines of operator input. Input is
// read one byte at a time: a child process that inherits the same stdin must
// see everything after the current line, so nothing may be read ahead.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// NewPrompter defaults to stdin/stdout when in or out is nil.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: in, out: out}
}

func (p *Prompter) Printf(format string, v ...any) {
	fmt.Fprintf(p.out, format, v...)
}

func (p *Prompter) Println(v ...any) {
	fmt.Fprintln(p.out, v...)
}

// ReadLine returns the next line without its line ending. A final line with
// no newline is returned as is; io.EOF is only returned when nothing is left.
func (p *Prompter) ReadLine() (string, error) {
	var line []byte

	b := make([]byte, 1)
	for {
		n, err := p.in.Read(b)
		if n > 0 {
			if b[0] == '\n' {
				return strings.TrimSuffix(string(line), "\r"), nil
			}
			line = append(line, b[0])
		}
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return strings.TrimSuffix(string(line), "\r"), nil
			}
			return "", err
		}
	}
}

// Prompt prints the prompt and reads a trimmed line.
func (p *Prompter) Prompt(format string, v ...any) (string, error) {
	p.Printf(format, v...)
	line, err := p.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a y/n question; only an answer starting with y or Y confirms.
func (p *Prompter) Confirm(format string, v ...any) (bool, error) {
	answer, err := p.Prompt(format+" (y/n): ", v...)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(answer, "y") || strings.HasPrefix(answer, "Y"), nil
}
