package formula

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sharedFormulaSchema = `CREATE TABLE IF NOT EXISTS shared_formulas (
	sheet_name TEXT NOT NULL,
	cell TEXT NOT NULL,
	row_index INTEGER NOT NULL,
	col_index INTEGER NOT NULL,
	shared_index INTEGER NOT NULL,
	formula TEXT NOT NULL,
	reference TEXT NOT NULL,
	PRIMARY KEY (sheet_name, cell)
)`

// OpenSQLite opens (creating if needed) a SQLite database at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// WriteSQLite replaces the shared_formulas table contents with seq inside
// one transaction and returns the number of rows written.
func WriteSQLite(ctx context.Context, db *sql.DB, seq iter.Seq[models.SharedFormula]) (n int, retErr error) {
	if _, err := db.ExecContext(ctx, sharedFormulaSchema); err != nil {
		return 0, fmt.Errorf("create shared_formulas table: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shared_formulas`); err != nil {
		return 0, fmt.Errorf("clear shared_formulas: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO shared_formulas
		(sheet_name, cell, row_index, col_index, shared_index, formula, reference)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sheet_name, cell) DO UPDATE SET
			row_index = excluded.row_index,
			col_index = excluded.col_index,
			shared_index = excluded.shared_index,
			formula = excluded.formula,
			reference = excluded.reference`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for rec := range seq {
		if _, err := stmt.ExecContext(ctx, rec.SheetName, rec.Cell, rec.Row, rec.Col,
			rec.SharedIndex, rec.Formula, rec.Reference); err != nil {
			return n, fmt.Errorf("insert %s!%s: %w", rec.SheetName, rec.Cell, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// ReadSQLite returns the stored records ordered as they were exported.
func ReadSQLite(ctx context.Context, db *sql.DB) ([]models.SharedFormula, error) {
	rows, err := db.QueryContext(ctx, `SELECT sheet_name, cell, row_index, col_index, shared_index, formula, reference
		FROM shared_formulas ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("select shared_formulas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.SharedFormula
	for rows.Next() {
		var r models.SharedFormula
		if err := rows.Scan(&r.SheetName, &r.Cell, &r.Row, &r.Col, &r.SharedIndex, &r.Formula, &r.Reference); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
