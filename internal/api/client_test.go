package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-init-data", 5*time.Second)
}

func TestGetPortfolio_FillsPositionSymbols(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/portfolio" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"balance_usdt": 9000,
			"positions": {
				"BTC": {"amount": 0.01, "entry_price": 95450, "pnl": 12.5, "pnl_pct": 1.3},
				"ETH": {"amount": 0.4, "entry_price": 2380, "pnl": -4.0, "pnl_pct": -0.4}
			},
			"total_value": 10010.5,
			"enabled": true
		}`))
	})

	snap, err := client.GetPortfolio(context.Background())
	if err != nil {
		t.Fatalf("GetPortfolio failed: %v", err)
	}

	if len(snap.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(snap.Positions))
	}
	if got := snap.Positions["BTC"].Symbol; got != "BTC" {
		t.Errorf("expected BTC position symbol to be filled, got %q", got)
	}
	if !snap.AIEnabled {
		t.Error("expected AIEnabled true")
	}
	if snap.TotalValue != 10010.5 {
		t.Errorf("expected total value 10010.5, got %v", snap.TotalValue)
	}
}

func TestRequestHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if id := r.Header.Get("X-Telegram-Init-Data"); id != "test-init-data" {
			t.Errorf("expected init data header, got %q", id)
		}
		if rid := r.Header.Get("X-Request-ID"); rid == "" {
			t.Error("expected X-Request-ID header")
		}
		w.Write([]byte(`{"signals": []}`))
	})

	if _, err := client.GetSignals(context.Background()); err != nil {
		t.Fatalf("GetSignals failed: %v", err)
	}
}

func TestGetSignals_SymbolsFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbols"); got != "BTC,ETH" {
			t.Errorf("expected symbols=BTC,ETH, got %q", got)
		}
		w.Write([]byte(`{"signals": [{"symbol": "BTC", "signal": "BUY", "confidence": 82}]}`))
	})

	signals, err := client.GetSignals(context.Background(), "BTC", "ETH")
	if err != nil {
		t.Fatalf("GetSignals failed: %v", err)
	}
	if len(signals) != 1 || signals[0].Kind != SignalBuy {
		t.Fatalf("unexpected signals %+v", signals)
	}
}

func TestGetHistory_PassesLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "25" {
			t.Errorf("expected limit=25, got %q", got)
		}
		w.Write([]byte(`{"trades": [{"symbol": "SOL", "profit_usdt": 3.2}], "stats": {"total_trades": 1, "wins": 1, "winrate": 100}}`))
	})

	hist, err := client.GetHistory(context.Background(), 25)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(hist.Trades) != 1 || hist.Trades[0].Symbol != "SOL" {
		t.Fatalf("unexpected trades %+v", hist.Trades)
	}
	if hist.Stats.Winrate != 100 {
		t.Errorf("expected winrate 100, got %v", hist.Stats.Winrate)
	}
}

func TestNonSuccessStatus_IsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "no funds"}`, http.StatusBadRequest)
	})

	_, err := client.Buy(context.Background(), "BTC", 1e9)
	if err == nil {
		t.Fatal("expected error")
	}

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if transport.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", transport.Status)
	}
}

func TestMalformedBody_IsDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.GetPortfolio(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var decode *DecodeError
	if !errors.As(err, &decode) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
}

func TestToggleAI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/toggle-ai" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "enabled": false, "message": "AI off"}`))
	})

	res, err := client.ToggleAI(context.Background())
	if err != nil {
		t.Fatalf("ToggleAI failed: %v", err)
	}
	if res.Enabled {
		t.Error("expected enabled false")
	}
	if res.Message != "AI off" {
		t.Errorf("expected message %q, got %q", "AI off", res.Message)
	}
}

func TestSell_SendsSymbolAsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trade/sell" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "ETH" {
			t.Errorf("expected symbol=ETH, got %q", got)
		}
		w.Write([]byte(`{"success": true, "message": "sold"}`))
	})

	res, err := client.Sell(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("Sell failed: %v", err)
	}
	if !res.Success {
		t.Error("expected success")
	}
}
