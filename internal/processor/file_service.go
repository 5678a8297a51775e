package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"tcpdrop/pkg/types"
)

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrFileUnreadable = errors.New("file is not readable")
)

// FileService handles basic file operations
type FileService struct{}

// NewFileService creates a new file service
func NewFileService() *FileService {
	return &FileService{}
}

// CreateMetadata creates file metadata for a local file that is about to be sent
func (f *FileService) CreateMetadata(filePath string) (*types.FileMetadata, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, classifyOpenError(filePath, err)
	}
	if !stat.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, filePath)
	}

	filename := filepath.Base(filePath)

	mimeType := mime.TypeByExtension(filepath.Ext(filePath))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &types.FileMetadata{
		Name:     filename,
		Size:     stat.Size(),
		MimeType: mimeType,
	}, nil
}

// ReceivePath joins a received file name onto the receive directory. The
// name is used as sent.
func (f *FileService) ReceivePath(dir, name string) string {
	return filepath.Join(dir, name)
}

func classifyOpenError(filePath string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrFileUnreadable, filePath)
	default:
		return fmt.Errorf("failed to get file info: %w", err)
	}
}
