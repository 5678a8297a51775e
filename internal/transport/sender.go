package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"

	"tcpdrop/internal/config"
	"tcpdrop/internal/processor"
	"tcpdrop/internal/protocol"
	"tcpdrop/pkg/types"
)

// Sender pushes local files to a receiver, one connection per file
type Sender struct {
	config      config.ClientConfig
	fileService *processor.FileService
	dialer      *net.Dialer
}

// NewSender creates a sender that dials the receiver named in cfg
func NewSender(cfg config.ClientConfig) *Sender {
	return &Sender{
		config:      cfg,
		fileService: processor.NewFileService(),
		dialer:      &net.Dialer{Timeout: cfg.DialTimeout},
	}
}

// Transfer sends filePath to the configured receiver
func (s *Sender) Transfer(ctx context.Context, filePath string) (*types.TransferResult, error) {
	return s.TransferTo(ctx, s.config.Address, s.config.Port, filePath, nil)
}

// TransferWithProgress is Transfer that also reports chunks on progressCh.
// progressCh is not closed.
func (s *Sender) TransferWithProgress(ctx context.Context, filePath string, progressCh chan<- types.ProgressUpdate) (*types.TransferResult, error) {
	return s.TransferTo(ctx, s.config.Address, s.config.Port, filePath, progressCh)
}

// TransferTo opens a fresh connection to address:port, sends the header and
// body of filePath and waits for the acknowledgement. The file is checked
// before dialing. The connection is closed on every return path.
func (s *Sender) TransferTo(ctx context.Context, address string, port int, filePath string, progressCh chan<- types.ProgressUpdate) (*types.TransferResult, error) {
	state := SenderPreparing
	result := &types.TransferResult{Path: filePath}

	reader, err := s.fileService.OpenReader(filePath)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	defer reader.Close()

	result.Name = reader.Metadata.Name
	result.Declared = uint64(reader.Metadata.Size)

	state = SenderConnecting
	addr := net.JoinHostPort(address, strconv.Itoa(port))
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return result, fmt.Errorf("%w %s: %w", ErrConnect, addr, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			log.Printf("Error closing connection to %s: %v", addr, cerr)
		}
	}()

	// closing the connection is the only way to interrupt blocked I/O
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Printf("Connected to %s, sending %s (%d bytes)", addr, result.Name, result.Declared)

	fail := func(kind error, err error) (*types.TransferResult, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		return result, fmt.Errorf("%w while %s: %w", kind, state, err)
	}

	state = SenderSendingHeader
	header := protocol.Header{Name: reader.Metadata.Name, Size: result.Declared}
	if err := protocol.WriteHeader(conn, header); err != nil {
		return fail(ErrTransferAbort, err)
	}

	state = SenderSendingBody
	sent, err := reader.StreamTo(conn, s.config.ChunkSize, progressCh)
	result.Received = sent
	if err != nil {
		return fail(ErrTransferAbort, err)
	}

	log.Printf("File sent. Waiting for receiver response...")

	state = SenderAwaitingAck
	ack, err := protocol.ReadAck(conn)
	result.Ack = ack
	if err != nil {
		return fail(ErrAck, err)
	}

	result.Complete = true
	log.Printf("Receiver: %s", ack)
	return result, nil
}
