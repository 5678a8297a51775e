package transport

import "errors"

var (
	ErrPrecondition  = errors.New("file cannot be sent")
	ErrConnect       = errors.New("could not connect to receiver")
	ErrTransferAbort = errors.New("transfer aborted")
	ErrAck           = errors.New("acknowledgement failed")
	ErrHandlerFault  = errors.New("connection handler failed")
	ErrNotListening  = errors.New("listener is not bound")
)

// SenderState represents the current state of the sender in the transfer protocol
type SenderState int

const (
	SenderPreparing SenderState = iota
	SenderConnecting
	SenderSendingHeader
	SenderSendingBody
	SenderAwaitingAck
	SenderCompleted
)

// String returns the string representation of SenderState
func (s SenderState) String() string {
	switch s {
	case SenderPreparing:
		return "Preparing"
	case SenderConnecting:
		return "Connecting"
	case SenderSendingHeader:
		return "SendingHeader"
	case SenderSendingBody:
		return "SendingBody"
	case SenderAwaitingAck:
		return "AwaitingAck"
	case SenderCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// ReceiverState represents the current state of one accepted connection.
// AwaitingHeader -> AwaitingBody -> Acknowledging -> Closed; Aborted is
// reached when the header never arrives and skips the acknowledgement.
type ReceiverState int

const (
	ReceiverAwaitingHeader ReceiverState = iota
	ReceiverAwaitingBody
	ReceiverAcknowledging
	ReceiverClosed
	ReceiverAborted
)

// String returns the string representation of ReceiverState
func (r ReceiverState) String() string {
	switch r {
	case ReceiverAwaitingHeader:
		return "AwaitingHeader"
	case ReceiverAwaitingBody:
		return "AwaitingBody"
	case ReceiverAcknowledging:
		return "Acknowledging"
	case ReceiverClosed:
		return "Closed"
	case ReceiverAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}
