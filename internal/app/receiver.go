package app

import (
	"context"
	"fmt"
	"log"
)

// ReceiverApp implements receiver application logic
type ReceiverApp struct {
	receiver FileReceiver
}

// NewReceiverApp creates a new receiver application
func NewReceiverApp(receiver FileReceiver) *ReceiverApp {
	return &ReceiverApp{receiver: receiver}
}

// Run serves until ctx is cancelled
func (r *ReceiverApp) Run(ctx context.Context) error {
	log.Println("Receiver starting")

	if err := r.receiver.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("receiver stopped: %w", err)
	}

	log.Printf("Receiver shut down: %s", r.receiver.Summary())
	return nil
}
