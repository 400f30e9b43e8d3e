package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
	// ErrNoHistory indicates the market has no stored observations.
	ErrNoHistory = errors.New("storage: no rate history")
)

// DefaultHistoryTable holds (market, month, short_rate) rows.
const DefaultHistoryTable = "rate_history"

// Latest observations first, re-ordered ascending by the outer select.
const latestHistoryTemplate = `SELECT market, month, short_rate::text
    FROM (
        SELECT market, month, short_rate
        FROM %s
        WHERE lower(market) = lower($1)
        ORDER BY month DESC
        LIMIT $2
    ) latest
    ORDER BY month;`

const countHistoryTemplate = `SELECT COUNT(*) FROM %s WHERE lower(market) = lower($1);`

// HistorySource yields the short-rate history a calibration runs on.
type HistorySource interface {
	LoadHistory(ctx context.Context, market string, limit int) ([]RatePoint, error)
}

// HistoryCounter reports how many observations a market has stored.
type HistoryCounter interface {
	CountObservations(ctx context.Context, market string) (int64, error)
}

// Store reads rate histories from PostgreSQL. It never writes.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// NewStore wires a pgx pool into a Store reading table.
func NewStore(pool *pgxpool.Pool, table string) *Store {
	if strings.TrimSpace(table) == "" {
		table = DefaultHistoryTable
	}
	return &Store{pool: pool, table: table}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

func (s *Store) query(template string) string {
	ident := pgx.Identifier(strings.Split(s.table, "."))
	return fmt.Sprintf(template, ident.Sanitize())
}

// LoadHistory returns the latest limit observations of market, oldest first.
func (s *Store) LoadHistory(ctx context.Context, market string, limit int) ([]RatePoint, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("load history: limit must be positive, got %d", limit)
	}

	rows, queryErr := pool.Query(ctx, s.query(latestHistoryTemplate), market, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("load history: %w", queryErr)
	}
	defer rows.Close()

	points := make([]RatePoint, 0, limit)
	for rows.Next() {
		point, scanErr := scanRatePoint(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		points = append(points, point)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w for market %q", ErrNoHistory, market)
	}
	return points, nil
}

// CountObservations counts stored observations of market.
func (s *Store) CountObservations(ctx context.Context, market string) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, s.query(countHistoryTemplate), market).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count observations: %w", scanErr)
	}
	return count, nil
}

func scanRatePoint(rows pgx.Rows) (RatePoint, error) {
	var (
		market   string
		month    time.Time
		shortStr string
	)
	if err := rows.Scan(&market, &month, &shortStr); err != nil {
		return RatePoint{}, err
	}
	short, err := decimal.NewFromString(shortStr)
	if err != nil {
		return RatePoint{}, fmt.Errorf("parse short rate: %w", err)
	}
	return RatePoint{Market: market, Month: month, ShortRate: short}, nil
}
