package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"tcpdrop/pkg/types"
)

func Test_InputFilePath(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleUI(strings.NewReader("/tmp/a.txt\n"), &out)

	path, err := c.InputFilePath(context.Background())
	if err != nil || path != "/tmp/a.txt" {
		t.Fatalf("got %q, %v", path, err)
	}
	if !strings.Contains(out.String(), "Enter file path to send (or 'exit'): ") {
		t.Fatalf("prompt missing from output: %q", out.String())
	}

	c.ShowResponse("File received OK")
	if !strings.Contains(out.String(), "Server: File received OK") {
		t.Fatalf("response missing from output: %q", out.String())
	}
}

func Test_ProgressTrack(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressUI(&out)

	ch := make(chan types.ProgressUpdate, 4)
	ch <- types.ProgressUpdate{MetaData: &types.FileMetadata{Name: "big.iso", Size: 300, MimeType: "application/x-iso9660-image"}}
	ch <- types.ProgressUpdate{NewBytes: 100}
	ch <- types.ProgressUpdate{NewBytes: 200}
	close(ch)

	p.Track(context.Background(), ch)

	if p.Sent() != 300 {
		t.Fatalf("expected 300 bytes tracked, got %d", p.Sent())
	}
	if !strings.Contains(out.String(), "+ File: big.iso") {
		t.Fatalf("summary missing from output: %q", out.String())
	}
	if !strings.Contains(out.String(), "+ Type: application/x-iso9660-image") {
		t.Fatalf("mime type missing from output: %q", out.String())
	}
}

func Test_ProgressDrainsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProgressUI(&bytes.Buffer{})
	ch := make(chan types.ProgressUpdate)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Track(ctx, ch)
	}()

	timeout := time.After(5 * time.Second)
	for i := 0; i < 100; i++ {
		select {
		case ch <- types.ProgressUpdate{NewBytes: 1}:
		case <-timeout:
			t.Fatalf("send %d blocked after cancel", i)
		}
	}
	close(ch)

	select {
	case <-done:
	case <-timeout:
		t.Fatal("Track did not return after the channel closed")
	}
}

func Test_ProgressIgnoresDataBeforeMetadata(t *testing.T) {
	p := NewProgressUI(&bytes.Buffer{})

	ch := make(chan types.ProgressUpdate, 1)
	ch <- types.ProgressUpdate{NewBytes: 10}
	close(ch)

	p.Track(context.Background(), ch)
	if p.Sent() != 0 {
		t.Fatalf("expected nothing tracked without metadata, got %d", p.Sent())
	}
}
