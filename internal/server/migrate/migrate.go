// Package migrate applies SQL schema migrations from a filesystem of
// numbered pair files. Every migration ships as two files,
// "<index>_<name>_up.sql" and "<index>_<name>_down.sql"; applied indexes are
// recorded in a ledger table so repeated runs are no-ops.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/akarpov87/pagevault/internal/dbx"
)

var upNameRe = regexp.MustCompile(`^(\d+)_(.+)_up\.sql$`)

// Migration is one schema step loaded from a pair of SQL files.
type Migration struct {
	Index int64
	Name  string
	Up    string
	Down  string
}

// Read loads all migration pairs from fsys, sorted by index. A file matching
// the up pattern without its down counterpart is an error.
func Read(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations dir: %w", err)
	}

	var result []Migration
	for _, entry := range entries {
		m := upNameRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		index, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad migration index in %q: %w", entry.Name(), err)
		}
		name := m[2]

		up, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		downName := strings.TrimSuffix(entry.Name(), "_up.sql") + "_down.sql"
		down, err := fs.ReadFile(fsys, downName)
		if err != nil {
			return nil, fmt.Errorf("migration %d %q has no down file: %w", index, name, err)
		}

		result = append(result, Migration{
			Index: index,
			Name:  name,
			Up:    string(up),
			Down:  string(down),
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result, nil
}

// Run brings the database up to date. It creates the ledger table if
// missing, then applies every migration with an index above the last
// recorded one, each inside its own transaction together with its ledger
// row.
func Run(ctx context.Context, db *sql.DB, fsys fs.FS, ledgerTable string) error {
	migrations, err := Read(fsys)
	if err != nil {
		return err
	}

	createLedger := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, ledgerTable)
	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		return fmt.Errorf("creating ledger table: %w", err)
	}

	var last sql.NullInt64
	query := fmt.Sprintf(`SELECT MAX(id) FROM %s`, ledgerTable)
	if err := db.QueryRowContext(ctx, query).Scan(&last); err != nil {
		return fmt.Errorf("reading ledger: %w", err)
	}

	for _, m := range migrations {
		if last.Valid && m.Index <= last.Int64 {
			continue
		}
		err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if _, err := tx.ExecContext(ctx, m.Up); err != nil {
				return fmt.Errorf("applying migration %d %q: %w", m.Index, m.Name, err)
			}
			insert := fmt.Sprintf(`INSERT INTO %s (id, name) VALUES ($1, $2)`, ledgerTable)
			if _, err := tx.ExecContext(ctx, insert, m.Index, m.Name); err != nil {
				return fmt.Errorf("recording migration %d: %w", m.Index, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Down rolls back the most recently applied migration, if any.
func Down(ctx context.Context, db *sql.DB, fsys fs.FS, ledgerTable string) error {
	migrations, err := Read(fsys)
	if err != nil {
		return err
	}

	var last sql.NullInt64
	query := fmt.Sprintf(`SELECT MAX(id) FROM %s`, ledgerTable)
	if err := db.QueryRowContext(ctx, query).Scan(&last); err != nil {
		return fmt.Errorf("reading ledger: %w", err)
	}
	if !last.Valid {
		return nil
	}

	for _, m := range migrations {
		if m.Index != last.Int64 {
			continue
		}
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if _, err := tx.ExecContext(ctx, m.Down); err != nil {
				return fmt.Errorf("rolling back migration %d %q: %w", m.Index, m.Name, err)
			}
			del := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, ledgerTable)
			if _, err := tx.ExecContext(ctx, del, m.Index); err != nil {
				return fmt.Errorf("unrecording migration %d: %w", m.Index, err)
			}
			return nil
		})
	}
	return fmt.Errorf("migration %d present in ledger but not on disk", last.Int64)
}
