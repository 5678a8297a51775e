package ui

import (
	"context"
	"fmt"
	"io"
	"log"

	"tcpdrop/pkg/utils"
)

// ConsoleUI implements simple console-based interactive UI
type ConsoleUI struct {
	in       io.Reader
	out      io.Writer
	prompter *utils.LinePrompter // created on first prompt
}

// NewConsoleUI creates a console UI reading answers from in and printing to out
func NewConsoleUI(in io.Reader, out io.Writer) *ConsoleUI {
	return &ConsoleUI{
		in:  in,
		out: out,
	}
}

// ShowMessage displays a message to the user
func (c *ConsoleUI) ShowMessage(message string) {
	log.Printf("%s\n", message)
}

// ShowResponse prints the receiver's reply for a finished transfer
func (c *ConsoleUI) ShowResponse(response string) {
	fmt.Fprintf(c.out, "Server: %s\n", response)
}

// InputFilePath asks for the next file to send. Blank lines are returned as
// is; the caller decides to skip them.
func (c *ConsoleUI) InputFilePath(ctx context.Context) (string, error) {
	if c.prompter == nil {
		c.prompter = utils.NewLinePrompter(c.in, c.out)
	}
	return c.prompter.Ask(ctx, "Enter file path to send (or 'exit'): ")
}

// NewProgress creates a progress display writing to the UI output
func (c *ConsoleUI) NewProgress() *ProgressUI {
	return NewProgressUI(c.out)
}
