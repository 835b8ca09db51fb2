// Package sqlite implements a table backend on a SQLite database. It uses the
// pure-Go modernc.org driver so builds stay cgo-free.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/driftwork/drift/pkg/core"
)

// Open opens (and creates if needed) the database file at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// SQLite allows one writer at a time; a larger pool just trades errors
	// for lock contention.
	db.SetMaxOpenConns(1)
	return db, nil
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Table persists a keyed collection in a two-column SQLite table. Keys are
// stored as text, values as JSON.
type Table[K comparable, V any] struct {
	db    *sql.DB
	table string

	encodeKey func(K) (string, error)
	decodeKey func(string) (K, error)
}

// NewTable creates a table backend. The table is created on first LoadAll or
// SaveAll if it does not exist. Table names are restricted to identifier
// characters since they are interpolated into SQL.
func NewTable[K comparable, V any](db *sql.DB, table string, encode func(K) (string, error), decode func(string) (K, error)) (*Table[K, V], error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if encode == nil || decode == nil {
		return nil, fmt.Errorf("table %s: key codec must define both encode and decode", table)
	}
	return &Table[K, V]{db: db, table: table, encodeKey: encode, decodeKey: decode}, nil
}

// NewStringTable creates a table backend with string keys stored as-is.
func NewStringTable[V any](db *sql.DB, table string) (*Table[string, V], error) {
	identity := func(s string) (string, error) { return s, nil }
	return NewTable[string, V](db, table, identity, identity)
}

func (b *Table[K, V]) ensureSchema(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, b.table))
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", b.table, err)
	}
	return nil
}

// LoadAll streams every row to yield.
func (b *Table[K, V]) LoadAll(ctx context.Context, yield func(K, V) error) error {
	if err := b.ensureSchema(ctx); err != nil {
		return err
	}

	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(`SELECT key, value FROM %s ORDER BY key`, b.table))
	if err != nil {
		return fmt.Errorf("failed to query table %s: %w", b.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawKey, rawValue string
		if err := rows.Scan(&rawKey, &rawValue); err != nil {
			return fmt.Errorf("failed to scan row in %s: %w", b.table, err)
		}

		key, err := b.decodeKey(rawKey)
		if err != nil {
			return fmt.Errorf("failed to decode key %q in %s: %w", rawKey, b.table, err)
		}
		var value V
		if err := json.Unmarshal([]byte(rawValue), &value); err != nil {
			return fmt.Errorf("failed to decode value for key %q in %s: %w", rawKey, b.table, err)
		}

		if err := yield(key, value); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SaveAll applies all changes in a single transaction: either every write and
// delete lands, or none do.
func (b *Table[K, V]) SaveAll(ctx context.Context, added, modified map[K]V, deleted []K) error {
	if err := b.ensureSchema(ctx); err != nil {
		return err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction on %s: %w", b.table, err)
	}
	defer tx.Rollback()

	upsert, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, b.table))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert on %s: %w", b.table, err)
	}
	defer upsert.Close()

	for _, records := range []map[K]V{added, modified} {
		for key, value := range records {
			rawKey, err := b.encodeKey(key)
			if err != nil {
				return fmt.Errorf("failed to encode key %v for %s: %w", key, b.table, err)
			}
			rawValue, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to encode value for key %q in %s: %w", rawKey, b.table, err)
			}
			if _, err := upsert.ExecContext(ctx, rawKey, string(rawValue)); err != nil {
				return fmt.Errorf("failed to upsert key %q in %s: %w", rawKey, b.table, err)
			}
		}
	}

	for _, key := range deleted {
		rawKey, err := b.encodeKey(key)
		if err != nil {
			return fmt.Errorf("failed to encode key %v for %s: %w", key, b.table, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, b.table), rawKey); err != nil {
			return fmt.Errorf("failed to delete key %q in %s: %w", rawKey, b.table, err)
		}
	}

	return tx.Commit()
}

var _ core.TableBackend[string, struct{}] = (*Table[string, struct{}])(nil)
