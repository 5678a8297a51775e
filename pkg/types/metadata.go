package types

// FileMetadata contains information about the file being transferred
type FileMetadata struct {
	Name     string `json:"name"`     // Base filename, as sent on the wire
	Size     int64  `json:"size"`     // File size in bytes
	MimeType string `json:"mimeType"` // MIME type guessed from the extension, local display only
}

// ProgressUpdate represents raw file transfer progress data
type ProgressUpdate struct {
	NewBytes uint64        // New bytes transferred in this update
	MetaData *FileMetadata // This should only be sent once at the start
}

// TransferResult is the outcome of one file on one connection
type TransferResult struct {
	ConnID   string // Receiver-side connection id, empty on the sender
	Name     string // File name from the header
	Path     string // Local path read from or written to
	Declared uint64 // Size announced in the header
	Received uint64 // Body bytes actually moved
	Complete bool   // Received == Declared
	Ack      string // Acknowledgement text, sender side
}
