package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// TerminalScreen writes region content to a terminal. Each Apply prints the
// region under a titled rule so interleaved refreshes stay readable.
type TerminalScreen struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalScreen creates a screen writing to w (normally os.Stdout).
func NewTerminalScreen(w io.Writer) *TerminalScreen {
	return &TerminalScreen{w: w}
}

// Apply implements Screen.
func (s *TerminalScreen) Apply(region Region, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.ToUpper(string(region))
	rule := strings.Repeat("─", 46-len(title))
	fmt.Fprintf(s.w, "\n── %s %s\n%s\n", title, rule, content)
}
