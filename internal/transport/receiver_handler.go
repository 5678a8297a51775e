package transport

import (
	"errors"
	"fmt"
	"log"
	"net"

	"tcpdrop/internal/config"
	"tcpdrop/internal/processor"
	"tcpdrop/internal/protocol"
	"tcpdrop/pkg/types"

	"github.com/google/uuid"
)

// ReceiverHandler owns one accepted connection for its whole lifetime
type ReceiverHandler struct {
	config      config.ServerConfig
	fileService *processor.FileService
	conn        net.Conn

	connID string
	state  ReceiverState
}

// NewReceiverHandler creates a handler for conn
func NewReceiverHandler(cfg config.ServerConfig, fileService *processor.FileService, conn net.Conn) *ReceiverHandler {
	return &ReceiverHandler{
		config:      cfg,
		fileService: fileService,
		conn:        conn,
		connID:      uuid.NewString()[:8],
		state:       ReceiverAwaitingHeader,
	}
}

// ConnID returns the short id used in log lines
func (r *ReceiverHandler) ConnID() string {
	return r.connID
}

// State returns the state the handler is in
func (r *ReceiverHandler) State() ReceiverState {
	return r.state
}

func (r *ReceiverHandler) setState(state ReceiverState) {
	r.state = state
}

// Handle runs the connection to completion and always closes it. The returned
// error describes what went wrong for this connection only.
func (r *ReceiverHandler) Handle() (result types.TransferResult, err error) {
	result.ConnID = r.connID

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", ErrHandlerFault, rec)
		}
		if cerr := r.conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			log.Printf("[%s] Error closing connection: %v", r.connID, cerr)
		}
		if r.state != ReceiverAborted {
			r.setState(ReceiverClosed)
		}
	}()

	header, err := protocol.ReadHeader(r.conn)
	if err != nil {
		r.setState(ReceiverAborted)
		if errors.Is(err, protocol.ErrNoHeader) {
			return result, err
		}
		return result, fmt.Errorf("%w: %w", ErrTransferAbort, err)
	}
	result.Name = header.Name
	result.Declared = header.Size

	log.Printf("[%s] Receiving %s (%d bytes) from %s", r.connID, header.Name, header.Size, r.conn.RemoteAddr())

	writer, err := r.fileService.CreateWriter(r.config.SaveDir, header.Name)
	if err != nil {
		r.setState(ReceiverAborted)
		return result, fmt.Errorf("%w: %w", ErrHandlerFault, err)
	}
	result.Path = writer.Path()
	r.setState(ReceiverAwaitingBody)

	received, bodyErr := writer.ReceiveFrom(r.conn, header.Size, r.config.BufferSize)
	if cerr := writer.Close(); cerr != nil && bodyErr == nil {
		bodyErr = cerr
	}
	result.Received = received
	result.Complete = received == header.Size

	switch {
	case bodyErr == nil:
	case errors.Is(bodyErr, processor.ErrBodyTruncated):
		bodyErr = fmt.Errorf("%w: %w", ErrTransferAbort, bodyErr)
	default:
		bodyErr = fmt.Errorf("%w: %w", ErrHandlerFault, bodyErr)
	}

	// acknowledged whether the body arrived in full or not
	r.setState(ReceiverAcknowledging)
	if ackErr := protocol.WriteAck(r.conn); ackErr != nil {
		return result, errors.Join(bodyErr, fmt.Errorf("%w: %w", ErrHandlerFault, ackErr))
	}

	return result, bodyErr
}
