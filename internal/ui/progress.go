package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"tcpdrop/pkg/types"
	"tcpdrop/pkg/utils"

	"github.com/schollz/progressbar/v3"
)

// ProgressUI handles progress display for one file transfer
type ProgressUI struct {
	bar       *progressbar.ProgressBar
	out       io.Writer
	filename  string
	mimeType  string
	total     int64
	sent      int64
	startTime time.Time
}

// NewProgressUI creates a new progress UI
func NewProgressUI(out io.Writer) *ProgressUI {
	return &ProgressUI{out: out}
}

// startProgress initializes the progress bar once the file size is known
func (p *ProgressUI) startProgress(metadata *types.FileMetadata) {
	p.filename = metadata.Name
	p.total = metadata.Size
	p.mimeType = metadata.MimeType
	p.startTime = time.Now()

	description := fmt.Sprintf("Sending %s", metadata.Name)
	if metadata.MimeType != "" {
		description = fmt.Sprintf("Sending %s (%s)", metadata.Name, metadata.MimeType)
	}
	p.bar = progressbar.NewOptions64(metadata.Size,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetPredictTime(false),
	)
}

// Track consumes progressCh until it is closed. Once ctx ends updates are
// discarded, but the channel is still drained so the sender never blocks.
func (p *ProgressUI) Track(ctx context.Context, progressCh <-chan types.ProgressUpdate) {
	for {
		select {
		case <-ctx.Done():
			for range progressCh {
			}
			return
		case update, ok := <-progressCh:
			if !ok {
				p.complete()
				return
			}
			p.apply(update)
		}
	}
}

func (p *ProgressUI) apply(update types.ProgressUpdate) {
	if update.MetaData != nil && p.bar == nil {
		p.startProgress(update.MetaData)
		return
	}
	if p.bar == nil {
		return
	}

	p.sent += int64(update.NewBytes)
	_ = p.bar.Add64(int64(update.NewBytes))
}

// Sent returns the number of body bytes reported so far
func (p *ProgressUI) Sent() int64 {
	return p.sent
}

func (p *ProgressUI) complete() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()

	elapsed := time.Since(p.startTime)
	throughput := 0.0
	if elapsed.Seconds() > 0 {
		throughput = float64(p.sent) / elapsed.Seconds() / (1024 * 1024)
	}

	fmt.Fprintf(p.out, "\n=============================================\n")
	fmt.Fprintf(p.out, "+ File: %s\n", p.filename)
	if p.mimeType != "" {
		fmt.Fprintf(p.out, "+ Type: %s\n", p.mimeType)
	}
	fmt.Fprintf(p.out, "+ Bytes sent: %s of %s\n", utils.FormatFileSize(p.sent), utils.FormatFileSize(p.total))
	fmt.Fprintf(p.out, "+ Transfer time: %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(p.out, "+ Average throughput: %.2f MB/s\n", throughput)
	fmt.Fprintf(p.out, "=============================================\n")
}
