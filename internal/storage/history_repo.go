package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_history_store.go -package=mocks pm-assistant/internal/storage HistoryStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

const (
	// DefaultHistoryLimit is used by Recent when limit is not positive.
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps the number of entries Recent returns.
	MaxHistoryLimit = 200

	// Fixed width keeps the text column sortable.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// HistoryEntry is one recorded chat exchange.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Intent    string    `json:"intent,omitempty"`
	Source    string    `json:"source"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryStore defines the interface for query history storage operations.
type HistoryStore interface {
	// Record stores an entry. Empty ID and zero CreatedAt are filled in.
	Record(ctx context.Context, entry *HistoryEntry) error
	// Recent returns the newest entries first.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
	// Get returns the entry with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*HistoryEntry, error)
}

// HistoryRepo provides methods for query history operations.
// It implements the HistoryStore interface.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Record stores an entry.
func (r *HistoryRepo) Record(ctx context.Context, entry *HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO query_history (id, query, intent, source, answer, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		entry.ID, entry.Query, entry.Intent, entry.Source, entry.Answer, entry.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, query, intent, source, answer, created_at FROM query_history ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given ID.
func (r *HistoryRepo) Get(ctx context.Context, id string) (*HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, query, intent, source, answer, created_at FROM query_history WHERE id = ?",
		id,
	)
	entry, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return entry, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*HistoryEntry, error) {
	var entry HistoryEntry
	var createdAtStr string
	if err := row.Scan(&entry.ID, &entry.Query, &entry.Intent, &entry.Source, &entry.Answer, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}

	createdAt, err := time.Parse(timestampLayout, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	entry.CreatedAt = createdAt
	return &entry, nil
}
