package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/binvault/internal/domain/model"
	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BinStore = (*BinRepo)(nil)

// BinRepo is the SQLite implementation of the BinStore port interface.
type BinRepo struct {
	db *DB
}

// NewBinRepo creates a new BinRepo backed by the given DB.
func NewBinRepo(db *DB) *BinRepo {
	return &BinRepo{db: db}
}

// Name identifies the backend in logs and metrics.
func (r *BinRepo) Name() string { return "sqlite" }

// List returns all bins in insertion order.
func (r *BinRepo) List(ctx context.Context) ([]model.Bin, error) {
	const query = `SELECT id, title, content, created_at FROM bins ORDER BY seq ASC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	defer rows.Close()

	bins := []model.Bin{}
	for rows.Next() {
		var b model.Bin
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Title, &b.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		b.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: parse created_at for bin %s: %v", driven.ErrCorruptStore, b.ID, err)
		}
		bins = append(bins, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bins: %w", err)
	}

	return bins, nil
}

// Append inserts bin after all existing rows. A duplicate ID wraps
// driven.ErrConflict.
func (r *BinRepo) Append(ctx context.Context, bin model.Bin) error {
	const query = `INSERT INTO bins (id, title, content, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query,
		bin.ID, bin.Title, bin.Content, bin.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: bin %s already exists", driven.ErrConflict, bin.ID)
		}
		return fmt.Errorf("insert bin %s: %w", bin.ID, err)
	}

	return nil
}

// parseTime accepts RFC 3339 timestamps as written by Append as well as the
// SQLite CURRENT_TIMESTAMP layout.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
