package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputClosed is returned once the input stream has no more lines
var ErrInputClosed = errors.New("input closed")

// LinePrompter reads trimmed lines from an input stream after printing a prompt
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	lines   chan string
}

// NewLinePrompter creates a prompter reading from in and writing prompts to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	p := &LinePrompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		lines:   make(chan string),
	}
	go p.readLoop()
	return p
}

func (p *LinePrompter) readLoop() {
	defer close(p.lines)
	for p.scanner.Scan() {
		p.lines <- strings.TrimSpace(p.scanner.Text())
	}
}

// Ask prints prompt and waits for either a line or context cancellation
func (p *LinePrompter) Ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return line, nil
	}
}
