package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// SQLiteBackend stores records in a single SQLite table. Each atomic unit is
// an immediate transaction, so concurrent writers serialize on the database lock.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (and creates if needed) <dataDir>/<name>.db
func NewSQLiteBackend(dataDir, name string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, name+".db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, err
	}

	b := &SQLiteBackend{db: db}
	if err := b.init(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS records (
			kind TEXT NOT NULL,
			key TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (kind, key)
		)`,
	}

	for _, q := range queries {
		if _, err := b.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Atomic implements Backend
func (b *SQLiteBackend) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&sqliteTx{ctx: ctx, tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

type sqliteTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *sqliteTx) Get(kind, key string) ([]byte, error) {
	var data []byte
	err := t.tx.QueryRowContext(t.ctx, `SELECT data FROM records WHERE kind = ? AND key = ?`, kind, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.RecordNotFoundErr{Kind: kind, Key: key}
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (t *sqliteTx) Put(kind, key string, data []byte) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO records (kind, key, data) VALUES (?, ?, ?)
		 ON CONFLICT (kind, key) DO UPDATE SET data = excluded.data`,
		kind, key, data,
	)
	return err
}

func (t *sqliteTx) Delete(kind, key string) error {
	result, err := t.tx.ExecContext(t.ctx, `DELETE FROM records WHERE kind = ? AND key = ?`, kind, key)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.RecordNotFoundErr{Kind: kind, Key: key}
	}
	return nil
}

func (t *sqliteTx) Scan(kind string) ([]Record, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT key, data FROM records WHERE kind = ? ORDER BY key`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Key, &r.Data); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
