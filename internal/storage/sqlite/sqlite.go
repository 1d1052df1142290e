// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateLedger persists a new ledger with its participants.
func (s *SQLiteStore) CreateLedger(ctx context.Context, ledger *models.Ledger) error {
	if ledger.ID == "" {
		ledger.ID = uuid.New().String()
	}
	if ledger.CreatedAt == 0 {
		ledger.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO ledgers (id, name, owner_id, budget, created_at) VALUES (?, ?, ?, ?, ?)",
		ledger.ID, ledger.Name, ledger.OwnerID, ledger.Budget, ledger.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger: %w", err)
	}

	ledger.Participants = dedupe(ledger.Participants)
	if err := insertParticipants(ctx, tx, ledger.ID, 0, ledger.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetLedger retrieves a ledger by ID, including its participants in order.
func (s *SQLiteStore) GetLedger(ctx context.Context, ledgerID string) (*models.Ledger, error) {
	ledger := &models.Ledger{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, owner_id, budget, created_at FROM ledgers WHERE id = ?",
		ledgerID,
	).Scan(&ledger.ID, &ledger.Name, &ledger.OwnerID, &ledger.Budget, &ledger.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ledger %s: %w", ledgerID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	participants, err := s.listParticipants(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	ledger.Participants = participants
	return ledger, nil
}

// ListLedgersByOwner returns every ledger owned by ownerID, newest first.
func (s *SQLiteStore) ListLedgersByOwner(ctx context.Context, ownerID string) ([]*models.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, owner_id, budget, created_at FROM ledgers WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}

	var ledgers []*models.Ledger
	for rows.Next() {
		ledger := &models.Ledger{}
		if err := rows.Scan(&ledger.ID, &ledger.Name, &ledger.OwnerID, &ledger.Budget, &ledger.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		ledgers = append(ledgers, ledger)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate ledgers: %w", err)
	}
	// Release the connection before the per-ledger participant queries.
	rows.Close()

	for _, ledger := range ledgers {
		participants, err := s.listParticipants(ctx, ledger.ID)
		if err != nil {
			return nil, err
		}
		ledger.Participants = participants
	}
	return ledgers, nil
}

// UpdateLedger replaces a ledger's name, budget and participant list.
func (s *SQLiteStore) UpdateLedger(ctx context.Context, ledger *models.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE ledgers SET name = ?, budget = ? WHERE id = ?",
		ledger.Name, ledger.Budget, ledger.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ledger %s: %w", ledger.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_participants WHERE ledger_id = ?", ledger.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	ledger.Participants = dedupe(ledger.Participants)
	if err := insertParticipants(ctx, tx, ledger.ID, 0, ledger.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddParticipants appends names that are not yet on the ledger.
func (s *SQLiteStore) AddParticipants(ctx context.Context, ledgerID string, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM ledger_participants WHERE ledger_id = ?",
		ledgerID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to read participant position: %w", err)
	}

	if err := insertParticipants(ctx, tx, ledgerID, next, dedupe(names)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteLedger removes a ledger; participants and expenses cascade.
func (s *SQLiteStore) DeleteLedger(ctx context.Context, ledgerID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM ledgers WHERE id = ?", ledgerID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ledger %s: %w", ledgerID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) listParticipants(ctx context.Context, ledgerID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM ledger_participants WHERE ledger_id = ? ORDER BY position",
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// insertParticipants writes names starting at position start. Names already
// on the ledger are skipped without consuming a position.
func insertParticipants(ctx context.Context, tx *sql.Tx, ledgerID string, start int, names []string) error {
	pos := start
	for _, name := range names {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO ledger_participants (ledger_id, position, name) VALUES (?, ?, ?) ON CONFLICT (ledger_id, name) DO NOTHING",
			ledgerID, pos, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			pos++
		}
	}
	return nil
}

// dedupe drops repeated names, keeping first occurrences in order.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
