package processor

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

// ErrBodyTruncated is returned when the peer closes before the declared size
var ErrBodyTruncated = errors.New("peer closed before full body")

// FileWriter wraps an open file for receiving
type FileWriter struct {
	file              *os.File
	destPath          string
	totalBytesWritten uint64
}

// CreateWriter creates, or truncates, name inside dir. dir must already exist.
func (f *FileService) CreateWriter(dir, name string) (*FileWriter, error) {
	destPath := f.ReceivePath(dir, name)

	file, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &FileWriter{
		file:     file,
		destPath: destPath,
	}, nil
}

// ReceiveFrom reads from r until size bytes are written or r ends. A short
// body is kept on disk and reported with ErrBodyTruncated.
func (w *FileWriter) ReceiveFrom(r io.Reader, size uint64, bufferSize int) (uint64, error) {
	if bufferSize <= 0 {
		return 0, fmt.Errorf("invalid buffer size %d", bufferSize)
	}
	buffer := make([]byte, bufferSize)

	for w.totalBytesWritten < size {
		want := uint64(len(buffer))
		if remaining := size - w.totalBytesWritten; remaining < want {
			want = remaining
		}

		n, err := r.Read(buffer[:want])
		if n > 0 {
			if _, werr := w.file.Write(buffer[:n]); werr != nil {
				return w.totalBytesWritten, fmt.Errorf("failed to write data: %w", werr)
			}
			w.totalBytesWritten += uint64(n)
		}
		if err == io.EOF {
			if w.totalBytesWritten == size {
				break
			}
			return w.totalBytesWritten, fmt.Errorf("%w: got %d of %d bytes", ErrBodyTruncated, w.totalBytesWritten, size)
		}
		if err != nil {
			return w.totalBytesWritten, fmt.Errorf("failed to read body: %w", err)
		}
	}

	return w.totalBytesWritten, nil
}

// Path returns the destination path
func (w *FileWriter) Path() string {
	return w.destPath
}

// Close completes the file writing
func (w *FileWriter) Close() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	log.Printf("File writing completed: %s, %d bytes written", w.destPath, w.totalBytesWritten)
	return nil
}
