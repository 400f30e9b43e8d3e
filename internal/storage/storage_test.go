package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"hedgerisk/internal/config"
)

func TestStoreWithoutPool(t *testing.T) {
	var s *Store
	if _, err := s.LoadHistory(context.Background(), "colombia", 12); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := NewStore(nil, "").CountObservations(context.Background(), "colombia"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestQuerySanitizesTable(t *testing.T) {
	s := NewStore(nil, "market.rate_history")
	q := s.query(countHistoryTemplate)
	if !strings.Contains(q, `"market"."rate_history"`) {
		t.Fatalf("table not quoted: %s", q)
	}
	if got := NewStore(nil, " ").table; got != DefaultHistoryTable {
		t.Fatalf("default table %q", got)
	}
}

func TestRates(t *testing.T) {
	points := []RatePoint{
		{ShortRate: decimal.RequireFromString("0.1025")},
		{ShortRate: decimal.RequireFromString("0.0990")},
	}
	got := Rates(points)
	if len(got) != 2 || got[0] != 0.1025 || got[1] != 0.099 {
		t.Fatalf("rates %v", got)
	}
}

func TestNewPoolRequiresDSN(t *testing.T) {
	if _, err := NewPool(context.Background(), config.DatabaseConfig{}); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for an empty dsn, got %v", err)
	}
}

var _ HistoryCounter = (*Store)(nil)
