package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tcpdrop/internal/ui"
	"tcpdrop/pkg/types"
	"tcpdrop/pkg/utils"
)

// SenderOptions configures the sender application behavior
type SenderOptions struct {
	FilePaths    []string // Files to send; empty means prompt for paths interactively
	ShowProgress bool
}

// SenderApp implements sender application logic
type SenderApp struct {
	sender FileSender
	ui     *ui.ConsoleUI
}

// NewSenderApp creates a new sender application
func NewSenderApp(sender FileSender, ui *ui.ConsoleUI) *SenderApp {
	return &SenderApp{
		sender: sender,
		ui:     ui,
	}
}

// Run sends every file in opts, or prompts for paths until 'exit' when none
// are given. A failed file never stops the ones after it.
func (s *SenderApp) Run(ctx context.Context, opts *SenderOptions) error {
	if len(opts.FilePaths) == 0 {
		return s.runInteractive(ctx, opts)
	}

	var errs []error
	for _, path := range opts.FilePaths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.sendFile(ctx, path, opts.ShowProgress); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d transfers failed: %w", len(errs), len(opts.FilePaths), errors.Join(errs...))
	}
	return nil
}

func (s *SenderApp) runInteractive(ctx context.Context, opts *SenderOptions) error {
	for {
		path, err := s.ui.InputFilePath(ctx)
		if errors.Is(err, utils.ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		if strings.EqualFold(path, "exit") {
			return nil
		}
		if path == "" {
			continue
		}

		// reported inside sendFile, the loop moves on to the next path
		_ = s.sendFile(ctx, path, opts.ShowProgress)
	}
}

func (s *SenderApp) sendFile(ctx context.Context, path string, showProgress bool) error {
	var progressCh chan types.ProgressUpdate
	var progressDone chan struct{}
	var progress *ui.ProgressUI

	if showProgress {
		progressCh = make(chan types.ProgressUpdate, 16)
		progressDone = make(chan struct{})
		progress = s.ui.NewProgress()
		go func() {
			defer close(progressDone)
			progress.Track(ctx, progressCh)
		}()
	}

	result, err := s.sender.TransferWithProgress(ctx, path, progressCh)

	if showProgress {
		close(progressCh)
		<-progressDone
	}

	if err != nil {
		s.ui.ShowMessage(fmt.Sprintf("Transfer of %s failed: %v", path, err))
		return fmt.Errorf("%s: %w", path, err)
	}

	s.ui.ShowResponse(result.Ack)
	if progress != nil {
		s.ui.ShowMessage(fmt.Sprintf("Connection closed for %s, %s sent.", result.Name, utils.FormatFileSize(progress.Sent())))
	} else {
		s.ui.ShowMessage(fmt.Sprintf("Connection closed for %s.", result.Name))
	}
	return nil
}
