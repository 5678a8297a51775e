package app

import (
	"context"

	"tcpdrop/pkg/types"
)

// FileSender sends one file per call over its own connection
type FileSender interface {
	TransferWithProgress(ctx context.Context, filePath string, progressCh chan<- types.ProgressUpdate) (*types.TransferResult, error)
}

// FileReceiver binds and serves until the context ends
type FileReceiver interface {
	ListenAndServe(ctx context.Context) error
	Summary() string
}
