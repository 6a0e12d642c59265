package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/CTAG07/trigram/pkg/trigram"
	"github.com/oklog/ulid/v2"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS generation_runs (
    run_id        TEXT PRIMARY KEY,
    created_at    INTEGER NOT NULL,
    seed          INTEGER NOT NULL,
    max_length    INTEGER NOT NULL,
    vocab_size    INTEGER NOT NULL,
    total_tokens  INTEGER NOT NULL,
    output        TEXT NOT NULL
);
`

// Run is one recorded generate invocation. Only run metadata and the
// generated text are stored, never the model's counts.
type Run struct {
	ID          string
	CreatedAt   time.Time
	Seed        uint64
	MaxLength   int
	VocabSize   int
	TotalTokens int
	Output      string
}

// History records generation runs in a SQLite database.
type History struct {
	db      *sql.DB
	logger  *slog.Logger
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func setupHistorySchema(db *sql.DB) error {
	_, err := db.Exec(historySchema)
	return err
}

// NewHistory prepares the history schema on db and returns a History using it.
func NewHistory(db *sql.DB, logger *slog.Logger) (*History, error) {
	if err := setupHistorySchema(db); err != nil {
		return nil, fmt.Errorf("failed to setup history schema: %w", err)
	}
	return &History{
		db:      db,
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Record stores a run built from the model stats and generated output, and
// returns it with its ID and timestamp filled in.
func (h *History) Record(ctx context.Context, seed uint64, maxLength int, stats trigram.ModelStats, output string) (Run, error) {
	now := time.Now()

	h.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(now), h.entropy)
	h.mu.Unlock()
	if err != nil {
		return Run{}, fmt.Errorf("could not create run id: %w", err)
	}

	run := Run{
		ID:          id.String(),
		CreatedAt:   now,
		Seed:        seed,
		MaxLength:   maxLength,
		VocabSize:   stats.VocabSize,
		TotalTokens: stats.TotalTokens,
		Output:      output,
	}

	_, err = h.db.ExecContext(ctx, `
        INSERT INTO generation_runs (run_id, created_at, seed, max_length, vocab_size, total_tokens, output)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, run.ID, now.UnixMilli(), int64(seed), maxLength, run.VocabSize, run.TotalTokens, output)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert generation run: %w", err)
	}

	h.logger.DebugContext(ctx, "Generation run recorded",
		slog.String("run_id", run.ID),
		slog.Int("vocab_size", run.VocabSize),
	)
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := h.db.QueryContext(ctx, `
        SELECT run_id, created_at, seed, max_length, vocab_size, total_tokens, output
        FROM generation_runs ORDER BY run_id DESC LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query generation runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt, seed int64
		if err = rows.Scan(&run.ID, &createdAt, &seed, &run.MaxLength, &run.VocabSize, &run.TotalTokens, &run.Output); err != nil {
			return nil, err
		}
		run.CreatedAt = time.UnixMilli(createdAt)
		run.Seed = uint64(seed)
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
