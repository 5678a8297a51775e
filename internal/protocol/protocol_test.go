package protocol

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
)

// recordingWriter keeps every Write call separately
type recordingWriter struct {
	writes [][]byte
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, append([]byte(nil), p...))
	return len(p), nil
}

func Test_WriteHeaderLayout(t *testing.T) {
	w := &recordingWriter{}
	if err := WriteHeader(w, Header{Name: "a.txt", Size: 10}); err != nil {
		t.Fatalf("%s", err)
	}

	if len(w.writes) != 3 {
		t.Fatalf("expected 3 separate writes, got %d", len(w.writes))
	}

	expected := [][]byte{
		{0, 0, 0, 5},
		[]byte("a.txt"),
		{0, 0, 0, 0, 0, 0, 0, 10},
	}
	for i := range expected {
		if !bytes.Equal(w.writes[i], expected[i]) {
			t.Fatalf("write %d: expected %v, got %v", i, expected[i], w.writes[i])
		}
	}
}

func Test_WriteReadOverConn(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("%s", err)
	}
	defer l.Close()

	c, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("%s", err)
	}
	cc, err := l.Accept()
	if err != nil {
		t.Fatalf("%s", err)
	}
	defer c.Close()
	defer cc.Close()

	sent := Header{Name: "отчёт 2024.pdf", Size: 1 << 40}
	if err := WriteHeader(c, sent); err != nil {
		t.Fatalf("WriteHeader failed: %s", err)
	}

	got, err := ReadHeader(cc)
	if err != nil {
		t.Fatalf("ReadHeader failed: %s", err)
	}
	if got != sent {
		t.Fatalf("expected %+v, got %+v", sent, got)
	}
	if got.Len() != 4+len(sent.Name)+8 {
		t.Fatalf("unexpected header length %d", got.Len())
	}
}

func Test_ReadHeaderEmptyStream(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(nil))
	if !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func Test_ReadHeaderTruncated(t *testing.T) {
	var full bytes.Buffer
	if err := WriteHeader(&full, Header{Name: "report.csv", Size: 77}); err != nil {
		t.Fatalf("%s", err)
	}
	encoded := full.Bytes()

	for cut := 1; cut < len(encoded); cut++ {
		_, err := ReadHeader(bytes.NewReader(encoded[:cut]))
		if !errors.Is(err, ErrShortHeader) {
			t.Fatalf("cut at %d: expected ErrShortHeader, got %v", cut, err)
		}
	}
}

func Test_ReadHeaderLeavesBody(t *testing.T) {
	var stream bytes.Buffer
	if err := WriteHeader(&stream, Header{Name: "b.bin", Size: 3}); err != nil {
		t.Fatalf("%s", err)
	}
	stream.WriteString("xyz")

	h, err := ReadHeader(&stream)
	if err != nil {
		t.Fatalf("%s", err)
	}
	body, _ := io.ReadAll(&stream)
	if h.Size != 3 || string(body) != "xyz" {
		t.Fatalf("header consumed body bytes: %+v, body %q", h, body)
	}
}

func Test_HeaderNameLimits(t *testing.T) {
	if err := WriteHeader(io.Discard, Header{Name: ""}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	long := strings.Repeat("n", MaxNameLength+1)
	if err := WriteHeader(io.Discard, Header{Name: long}); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}

	// a peer declaring a huge name must not make us allocate it
	_, err := ReadHeader(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	if !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}

	_, err = ReadHeader(bytes.NewReader([]byte{0, 0, 0, 0}))
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func Test_Ack(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAck(&buf); err != nil {
		t.Fatalf("%s", err)
	}
	if buf.String() != "File received OK" {
		t.Fatalf("unexpected ack bytes %q", buf.String())
	}

	got, err := ReadAck(&buf)
	if err != nil || got != AckMessage {
		t.Fatalf("ReadAck: %q, %v", got, err)
	}

	if _, err := ReadAck(bytes.NewReader(nil)); !errors.Is(err, ErrNoAck) {
		t.Fatalf("expected ErrNoAck, got %v", err)
	}
	if _, err := ReadAck(strings.NewReader("File received KO")); !errors.Is(err, ErrBadAck) {
		t.Fatalf("expected ErrBadAck, got %v", err)
	}
}
