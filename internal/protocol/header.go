// Package protocol implements the framing shared by sender and receiver:
//
//	4 bytes  big-endian name length L
//	L bytes  file name (UTF-8)
//	8 bytes  big-endian body size S
//	S bytes  raw file content
//
// followed by the receiver's acknowledgement text.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// NameLengthSize is the width of the name length field
	NameLengthSize = 4
	// FileSizeSize is the width of the body size field
	FileSizeSize = 8
	// MaxNameLength bounds the name allocation on the receiving side
	MaxNameLength = 4096
)

var (
	ErrNoHeader    = errors.New("connection closed before header")
	ErrShortHeader = errors.New("connection closed mid-header")
	ErrEmptyName   = errors.New("file name is empty")
	ErrNameTooLong = errors.New("file name is too long")
)

// Header precedes the body of every transfer
type Header struct {
	Name string
	Size uint64
}

// Len returns the encoded header length in bytes
func (h Header) Len() int {
	return NameLengthSize + len(h.Name) + FileSizeSize
}

func (h Header) validate() error {
	if h.Name == "" {
		return ErrEmptyName
	}
	if len(h.Name) > MaxNameLength {
		return fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(h.Name))
	}
	return nil
}

// WriteHeader writes the three header fields as separate writes, in order.
// Each write completes before the next one starts.
func WriteHeader(w io.Writer, h Header) error {
	if err := h.validate(); err != nil {
		return err
	}

	var lenBuf [NameLengthSize]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(h.Name)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("failed to write name length: %w", err)
	}

	if _, err := w.Write([]byte(h.Name)); err != nil {
		return fmt.Errorf("failed to write name: %w", err)
	}

	var sizeBuf [FileSizeSize]byte
	binary.BigEndian.PutUint64(sizeBuf[:], h.Size)
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return fmt.Errorf("failed to write file size: %w", err)
	}

	return nil
}

// ReadHeader reads exactly one header from r. A reader that ends before the
// first byte yields ErrNoHeader; one that ends anywhere later yields an error
// wrapping ErrShortHeader.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header

	var lenBuf [NameLengthSize]byte
	if n, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return h, ErrNoHeader
		}
		return h, readErr("name length", err)
	}

	nameLen := binary.BigEndian.Uint32(lenBuf[:])
	if nameLen == 0 {
		return h, ErrEmptyName
	}
	if nameLen > MaxNameLength {
		return h, fmt.Errorf("%w: %d bytes", ErrNameTooLong, nameLen)
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return h, readErr("name", err)
	}

	var sizeBuf [FileSizeSize]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return h, readErr("file size", err)
	}

	h.Name = string(name)
	h.Size = binary.BigEndian.Uint64(sizeBuf[:])
	return h, nil
}

func readErr(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrShortHeader, field)
	}
	return fmt.Errorf("failed to read %s: %w", field, err)
}
