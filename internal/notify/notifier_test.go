package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

type recordingSender struct {
	name string
	err  error

	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) Send(ctx context.Context, title, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, title+": "+message)
	return s.err
}

func (s *recordingSender) Name() string { return s.name }

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify_FiltersEvents(t *testing.T) {
	sender := &recordingSender{name: "a"}
	n := NewNotifier([]Sender{sender}, []string{"trade_closed"}, testLogger())

	ctx := context.Background()
	if err := n.Notify(ctx, "ai_toggled", "AI", "on"); err != nil {
		t.Fatalf("filtered notify returned error: %v", err)
	}
	if sender.count() != 0 {
		t.Error("expected the filtered event to be dropped")
	}

	if err := n.Notify(ctx, "trade_closed", "Trade", "done"); err != nil {
		t.Fatalf("allowed notify returned error: %v", err)
	}
	if sender.count() != 1 {
		t.Errorf("expected 1 delivery, got %d", sender.count())
	}
}

func TestNotify_EmptyEventListAllowsAll(t *testing.T) {
	sender := &recordingSender{name: "a"}
	n := NewNotifier([]Sender{sender}, nil, testLogger())

	if err := n.Notify(context.Background(), "anything", "t", "m"); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if sender.count() != 1 {
		t.Errorf("expected 1 delivery, got %d", sender.count())
	}
}

func TestNotify_SenderFailureDoesNotBlockOthers(t *testing.T) {
	failing := &recordingSender{name: "bad", err: errors.New("boom")}
	healthy := &recordingSender{name: "good"}
	n := NewNotifier([]Sender{failing, healthy}, nil, testLogger())

	err := n.Notify(context.Background(), "error", "t", "m")
	if err == nil {
		t.Fatal("expected a combined error")
	}
	if healthy.count() != 1 {
		t.Error("expected delivery to the healthy sender despite the failure")
	}
}
