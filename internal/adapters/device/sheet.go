package device

import (
	"context"
	"errors"
)

// ErrSheetFull is returned when the client has not drained pending shares.
var ErrSheetFull = errors.New("share sheet queue full")

// Sheet implements ports.ShareSheet by queueing texts for the client, which
// receives them over its websocket and opens the native share sheet.
type Sheet struct {
	ch chan string
}

// NewSheet creates a sheet buffering up to size pending texts.
func NewSheet(size int) *Sheet {
	if size <= 0 {
		size = 1
	}
	return &Sheet{ch: make(chan string, size)}
}

// ShareText queues text without blocking.
func (s *Sheet) ShareText(ctx context.Context, text string) error {
	select {
	case s.ch <- text:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrSheetFull
	}
}

// Pending delivers queued texts.
func (s *Sheet) Pending() <-chan string {
	return s.ch
}
