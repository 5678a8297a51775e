package app

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"tcpdrop/internal/ui"
	"tcpdrop/pkg/types"
)

type fakeSender struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeSender) TransferWithProgress(ctx context.Context, filePath string, progressCh chan<- types.ProgressUpdate) (*types.TransferResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filePath)
	f.mu.Unlock()

	if err := f.fail[filePath]; err != nil {
		return &types.TransferResult{Path: filePath}, err
	}
	if progressCh != nil {
		progressCh <- types.ProgressUpdate{MetaData: &types.FileMetadata{Name: filePath, Size: 3}}
		progressCh <- types.ProgressUpdate{NewBytes: 3}
	}
	return &types.TransferResult{Name: filePath, Ack: "File received OK", Complete: true}, nil
}

func Test_SenderAppInteractive(t *testing.T) {
	fake := &fakeSender{fail: map[string]error{"bad.txt": errors.New("boom")}}
	var out bytes.Buffer
	console := ui.NewConsoleUI(strings.NewReader("a.txt\n\nbad.txt\nb.txt\nEXIT\nnever.txt\n"), &out)

	if err := NewSenderApp(fake, console).Run(context.Background(), &SenderOptions{}); err != nil {
		t.Fatalf("%s", err)
	}

	want := []string{"a.txt", "bad.txt", "b.txt"}
	if strings.Join(fake.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("expected calls %v, got %v", want, fake.calls)
	}
	if strings.Count(out.String(), "Server: File received OK") != 2 {
		t.Fatalf("expected two acknowledgements in output: %q", out.String())
	}
}

func Test_SenderAppInteractiveEOF(t *testing.T) {
	fake := &fakeSender{}
	console := ui.NewConsoleUI(strings.NewReader("only.txt\n"), &bytes.Buffer{})

	if err := NewSenderApp(fake, console).Run(context.Background(), &SenderOptions{}); err != nil {
		t.Fatalf("expected clean exit at end of input, got %s", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected one call, got %v", fake.calls)
	}
}

func Test_SenderAppBatchContinuesAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeSender{fail: map[string]error{"one.txt": boom}}
	console := ui.NewConsoleUI(strings.NewReader(""), &bytes.Buffer{})

	err := NewSenderApp(fake, console).Run(context.Background(), &SenderOptions{
		FilePaths:    []string{"one.txt", "two.txt"},
		ShowProgress: true,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("second file not attempted: %v", fake.calls)
	}
}

func Test_SenderAppReportsBytesSent(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	console := ui.NewConsoleUI(strings.NewReader(""), &bytes.Buffer{})
	err := NewSenderApp(&fakeSender{}, console).Run(context.Background(), &SenderOptions{
		FilePaths:    []string{"a.txt"},
		ShowProgress: true,
	})
	if err != nil {
		t.Fatalf("%s", err)
	}
	if !strings.Contains(logs.String(), "Connection closed for a.txt, 3 B sent.") {
		t.Fatalf("completion message missing byte count: %q", logs.String())
	}
}

// floodSender behaves like a transfer that is still streaming chunks when
// the context is cancelled.
type floodSender struct {
	cancel context.CancelFunc
}

func (f *floodSender) TransferWithProgress(ctx context.Context, filePath string, progressCh chan<- types.ProgressUpdate) (*types.TransferResult, error) {
	progressCh <- types.ProgressUpdate{MetaData: &types.FileMetadata{Name: filePath, Size: 1 << 20}}
	f.cancel()
	for i := 0; i < 1024; i++ {
		progressCh <- types.ProgressUpdate{NewBytes: 1024}
	}
	return &types.TransferResult{Name: filePath}, ctx.Err()
}

func Test_SenderAppCancelWithProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console := ui.NewConsoleUI(strings.NewReader(""), &bytes.Buffer{})
	app := NewSenderApp(&floodSender{cancel: cancel}, console)

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx, &SenderOptions{FilePaths: []string{"big.bin"}, ShowProgress: true})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancellation, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type fakeReceiver struct {
	err error
}

func (f *fakeReceiver) ListenAndServe(ctx context.Context) error {
	return f.err
}

func (f *fakeReceiver) Summary() string {
	return "nothing received"
}

func Test_ReceiverApp(t *testing.T) {
	if err := NewReceiverApp(&fakeReceiver{}).Run(context.Background()); err != nil {
		t.Fatalf("%s", err)
	}

	bindErr := errors.New("address in use")
	if err := NewReceiverApp(&fakeReceiver{err: bindErr}).Run(context.Background()); !errors.Is(err, bindErr) {
		t.Fatalf("expected bind error, got %v", err)
	}
}
