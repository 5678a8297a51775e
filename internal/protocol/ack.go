package protocol

import (
	"errors"
	"fmt"
	"io"
)

// AckMessage is sent by the receiver once the body phase ends
const AckMessage = "File received OK"

var (
	ErrNoAck  = errors.New("no acknowledgement received")
	ErrBadAck = errors.New("unexpected acknowledgement")
)

// WriteAck sends the acknowledgement text
func WriteAck(w io.Writer) error {
	if _, err := io.WriteString(w, AckMessage); err != nil {
		return fmt.Errorf("failed to write acknowledgement: %w", err)
	}
	return nil
}

// ReadAck waits for the acknowledgement. The receiver closes the connection
// right after writing it, so reading stops at EOF; anything longer than the
// ack plus a little slack is cut off and reported as garbled.
func ReadAck(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(len(AckMessage))*2))
	got := string(data)

	if got == AckMessage {
		return got, nil
	}
	if len(data) == 0 {
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoAck, err)
		}
		return "", ErrNoAck
	}
	return got, fmt.Errorf("%w: %q", ErrBadAck, got)
}
