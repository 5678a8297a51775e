package processor

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"tcpdrop/pkg/types"
	"tcpdrop/pkg/utils"
)

// ErrFileShrank is returned when the file ends before its announced size
var ErrFileShrank = errors.New("file shorter than announced size")

// FileReader wraps an open file that is being sent
type FileReader struct {
	file     *os.File
	filePath string
	Metadata *types.FileMetadata
}

// OpenReader checks that filePath is a readable regular file and opens it.
// Nothing is read yet.
func (f *FileService) OpenReader(filePath string) (*FileReader, error) {
	metadata, err := f.CreateMetadata(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, classifyOpenError(filePath, err)
	}

	log.Printf("File prepared for reading: %s, size: %d bytes (%s)",
		filePath, metadata.Size, utils.FormatFileSize(metadata.Size))

	return &FileReader{
		file:     file,
		filePath: filePath,
		Metadata: metadata,
	}, nil
}

// StreamTo copies exactly Metadata.Size bytes to w in chunkSize pieces. Bytes
// appended to the file after it was opened are not sent. Each chunk is
// reported on progressCh when it is non-nil.
func (r *FileReader) StreamTo(w io.Writer, chunkSize int, progressCh chan<- types.ProgressUpdate) (uint64, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("invalid chunk size %d", chunkSize)
	}

	total := uint64(r.Metadata.Size)
	src := io.LimitReader(r.file, r.Metadata.Size)
	buffer := make([]byte, chunkSize)

	if progressCh != nil {
		progressCh <- types.ProgressUpdate{MetaData: r.Metadata}
	}

	var sent uint64
	for sent < total {
		n, err := src.Read(buffer)
		if n > 0 {
			if _, werr := w.Write(buffer[:n]); werr != nil {
				return sent, fmt.Errorf("failed to write chunk: %w", werr)
			}
			sent += uint64(n)
			if progressCh != nil {
				progressCh <- types.ProgressUpdate{NewBytes: uint64(n)}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return sent, fmt.Errorf("failed to read file: %w", err)
		}
	}

	if sent < total {
		return sent, fmt.Errorf("%w: sent %d of %d bytes", ErrFileShrank, sent, total)
	}
	return sent, nil
}

// Close closes the underlying file
func (r *FileReader) Close() error {
	return r.file.Close()
}
