// Package sqlite provides a transient SQLite file used to sort PSM rows
// before they are grouped
package sqlite

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// Spool stores rows keyed by (scan, charge, sequence) and returns them in key
// order, ties broken by insertion order. The database file is removed by Close.
type Spool struct {
	db      *sql.DB
	path    string
	tx      *sql.Tx
	rowStmt *sql.Stmt
	rows    int
}

// NewSpool creates an empty spool in dir (the system temp directory when empty)
func NewSpool(dir string) (*Spool, error) {
	f, err := os.CreateTemp(dir, "sicmerge-spool-*.sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	path := f.Name()
	f.Close()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to open spool database: %w", err)
	}
	// The open transaction must be visible to every statement
	db.SetMaxOpenConns(1)

	s := &Spool{
		db:   db,
		path: path,
	}

	if err := s.createTables(); err != nil {
		s.Close()
		return nil, err
	}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// createTables creates the spool schema
func (s *Spool) createTables() error {
	schema := `
	PRAGMA synchronous = OFF;

	CREATE TABLE IF NOT EXISTS RowTable (
		RowId INTEGER PRIMARY KEY,
		Scan INTEGER NOT NULL,
		Charge INTEGER NOT NULL,
		Sequence TEXT NOT NULL,
		Line TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements opens the insert transaction
func (s *Spool) prepareStatements() error {
	var err error

	s.tx, err = s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	s.rowStmt, err = s.tx.Prepare(`
		INSERT INTO RowTable (RowId, Scan, Charge, Sequence, Line)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare row statement: %w", err)
	}

	return nil
}

// Add stores one row
func (s *Spool) Add(scan, charge int, sequence, line string) error {
	if s.tx == nil {
		return fmt.Errorf("spool is read-only after Each")
	}

	s.rows++
	if _, err := s.rowStmt.Exec(s.rows, scan, charge, sequence, line); err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}
	return nil
}

// Len returns the number of rows added
func (s *Spool) Len() int {
	return s.rows
}

// Each commits the rows added so far and calls fn for every row in
// (scan, charge, sequence, insertion) order. No rows can be added afterwards.
func (s *Spool) Each(fn func(line string) error) error {
	if err := s.commit(); err != nil {
		return err
	}

	rows, err := s.db.Query(`SELECT Line FROM RowTable ORDER BY Scan, Charge, Sequence, RowId`)
	if err != nil {
		return fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	return rows.Err()
}

func (s *Spool) commit() error {
	if s.tx == nil {
		return nil
	}

	s.rowStmt.Close()
	err := s.tx.Commit()
	s.tx = nil
	s.rowStmt = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database and removes the spool file
func (s *Spool) Close() error {
	if s.rowStmt != nil {
		s.rowStmt.Close()
	}
	if s.tx != nil {
		s.tx.Rollback()
	}

	err := s.db.Close()
	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}
