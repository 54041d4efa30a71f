package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// TerminalSender prints notifications as a banner line on the dashboard's
// terminal, the closest analog to the host app's popup.
type TerminalSender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalSender creates a TerminalSender writing to w (normally
// os.Stderr so banners don't interleave with region output).
func NewTerminalSender(w io.Writer) *TerminalSender {
	return &TerminalSender{w: w}
}

// Send prints the notification.
func (t *TerminalSender) Send(_ context.Context, title, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := fmt.Fprintf(t.w, "[!] %s: %s\n", title, message); err != nil {
		return fmt.Errorf("terminal: write notification: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (t *TerminalSender) Name() string {
	return "terminal"
}
