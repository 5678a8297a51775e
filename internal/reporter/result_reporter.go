package reporter

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"tcpdrop/internal/processor"
	"tcpdrop/internal/protocol"
	"tcpdrop/pkg/types"
	"tcpdrop/pkg/utils"
)

// Stats counts connection outcomes seen by a ResultReporter
type Stats struct {
	Completed     int
	Truncated     int
	Empty         int // closed before any header byte
	Failed        int
	BytesReceived uint64
}

// ResultReporter logs each finished connection and keeps running totals.
// Report is safe to call from many handlers at once.
type ResultReporter struct {
	mu    sync.Mutex
	stats Stats
}

// NewResultReporter creates a reporter with zeroed totals
func NewResultReporter() *ResultReporter {
	return &ResultReporter{}
}

// Report logs one connection outcome
func (r *ResultReporter) Report(result types.TransferResult, err error) {
	r.mu.Lock()
	r.stats.BytesReceived += result.Received
	switch {
	case err == nil:
		r.stats.Completed++
	case errors.Is(err, protocol.ErrNoHeader):
		r.stats.Empty++
	case errors.Is(err, processor.ErrBodyTruncated):
		r.stats.Truncated++
	default:
		r.stats.Failed++
	}
	r.mu.Unlock()

	switch {
	case err == nil:
		log.Printf("[%s] Received %s (%s) -> %s",
			result.ConnID, result.Name, utils.FormatFileSize(int64(result.Received)), result.Path)
	case errors.Is(err, protocol.ErrNoHeader):
		log.Printf("[%s] Connection closed before sending a header, nothing received", result.ConnID)
	case errors.Is(err, processor.ErrBodyTruncated):
		log.Printf("[%s] Transfer of %s truncated: %d of %d bytes kept at %s",
			result.ConnID, result.Name, result.Received, result.Declared, result.Path)
	default:
		log.Printf("[%s] Handler error: %v", result.ConnID, err)
	}
}

// Stats returns a copy of the running totals
func (r *ResultReporter) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Summary formats the totals for a shutdown log line
func (r *ResultReporter) Summary() string {
	s := r.Stats()
	return fmt.Sprintf("%d completed, %d truncated, %d empty, %d failed, %s received",
		s.Completed, s.Truncated, s.Empty, s.Failed, utils.FormatFileSize(int64(s.BytesReceived)))
}
