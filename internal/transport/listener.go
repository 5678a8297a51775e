package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"tcpdrop/internal/config"
	"tcpdrop/internal/processor"
	"tcpdrop/internal/reporter"
	"tcpdrop/pkg/types"
	"tcpdrop/pkg/utils"

	"golang.org/x/sync/semaphore"
)

// ResultFunc is called once per accepted connection after its handler returns
type ResultFunc func(result types.TransferResult, err error)

// Listener accepts connections and runs one ReceiverHandler per connection.
// Handlers share nothing with each other or with the accept loop except the
// receive directory.
type Listener struct {
	config      config.ServerConfig
	fileService *processor.FileService
	sem         *semaphore.Weighted // nil when unbounded
	reporter    *reporter.ResultReporter

	OnResult ResultFunc

	mu       sync.Mutex
	listener net.Listener
	handlers sync.WaitGroup
}

// NewListener creates a listener for cfg. Nothing is bound until Listen.
func NewListener(cfg config.ServerConfig) *Listener {
	l := &Listener{
		config:      cfg,
		fileService: processor.NewFileService(),
		reporter:    reporter.NewResultReporter(),
	}
	if cfg.MaxConcurrent > 0 {
		l.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	return l
}

// Listen creates the receive directory if needed and binds the configured port
func (l *Listener) Listen() error {
	if err := utils.EnsureDirectory(l.config.SaveDir); err != nil {
		return fmt.Errorf("failed to prepare receive directory: %w", err)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", l.config.Port, err)
	}

	l.mu.Lock()
	l.listener = ln
	l.mu.Unlock()

	log.Printf("Listening on %s, saving files to %s", ln.Addr(), l.config.SaveDir)
	return nil
}

// Addr returns the bound address, or nil before Listen
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

// ListenAndServe binds the port and serves until ctx is cancelled
func (l *Listener) ListenAndServe(ctx context.Context) error {
	if err := l.Listen(); err != nil {
		return err
	}
	return l.Serve(ctx)
}

// Serve accepts connections until ctx is cancelled, then closes the listening
// socket and returns nil. Handlers still running are left to finish; Wait
// blocks until they have.
func (l *Listener) Serve(ctx context.Context) error {
	l.mu.Lock()
	ln := l.listener
	l.mu.Unlock()
	if ln == nil {
		return ErrNotListening
	}

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("Listener stopped: %v", ctx.Err())
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("listener closed: %w", err)
			}

			// e.g. EMFILE: back off instead of spinning, keep serving
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if tempDelay > time.Second {
				tempDelay = time.Second
			}
			log.Printf("Accept error: %v; retrying in %v", err, tempDelay)
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0

		if l.sem != nil {
			if err := l.sem.Acquire(ctx, 1); err != nil {
				conn.Close()
				return nil
			}
		}

		l.handlers.Add(1)
		go l.serveConn(conn)
	}
}

// Wait blocks until every dispatched handler has returned
func (l *Listener) Wait() {
	l.handlers.Wait()
}

// Summary describes every connection handled so far
func (l *Listener) Summary() string {
	return l.reporter.Summary()
}

func (l *Listener) serveConn(conn net.Conn) {
	defer l.handlers.Done()
	if l.sem != nil {
		defer l.sem.Release(1)
	}

	handler := NewReceiverHandler(l.config, l.fileService, conn)
	result, err := handler.Handle()
	l.reporter.Report(result, err)

	if l.OnResult != nil {
		l.OnResult(result, err)
	}
}
