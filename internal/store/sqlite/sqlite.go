// Package sqlite persists the ledger document in a SQLite database. The
// semantics match the jsonfile backend: Save rewrites the whole document
// in one transaction, Load reads it all back.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"budgeteer/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load() (*core.Document, error) {
	doc := core.NewDocument()

	rows, err := s.db.Query(`SELECT key FROM months`)
	if err != nil {
		return nil, fmt.Errorf("query months: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		doc.Months[key] = core.NewMonth()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate months: %w", err)
	}

	if err := s.loadBuckets(doc); err != nil {
		return nil, err
	}
	if err := s.loadExpenses(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) loadBuckets(doc *core.Document) error {
	rows, err := s.db.Query(`SELECT month_key, name, budget FROM buckets`)
	if err != nil {
		return fmt.Errorf("query buckets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, name string
		var budget float64
		if err := rows.Scan(&key, &name, &budget); err != nil {
			return fmt.Errorf("scan bucket: %w", err)
		}
		m, ok := doc.Months[key]
		if !ok {
			return fmt.Errorf("bucket %q references unknown month %q", name, key)
		}
		m.Buckets[name] = &core.Bucket{Budget: budget}
	}
	return rows.Err()
}

func (s *Store) loadExpenses(doc *core.Document) error {
	rows, err := s.db.Query(`SELECT month_key, hash, date, type, description, amount, status, bucket FROM expenses`)
	if err != nil {
		return fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, hash string
		var e core.Expense
		var bucket sql.NullString
		if err := rows.Scan(&key, &hash, &e.Date, &e.Type, &e.Description, &e.Amount, &e.Status, &bucket); err != nil {
			return fmt.Errorf("scan expense: %w", err)
		}
		if bucket.Valid {
			name := bucket.String
			e.Bucket = &name
		}
		m, ok := doc.Months[key]
		if !ok {
			return fmt.Errorf("expense %q references unknown month %q", hash, key)
		}
		m.Expenses[hash] = &e
	}
	return rows.Err()
}

func (s *Store) Save(doc *core.Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"expenses", "buckets", "months"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for key, m := range doc.Months {
		if _, err := tx.Exec(`INSERT INTO months (key) VALUES (?)`, key); err != nil {
			return fmt.Errorf("insert month %s: %w", key, err)
		}
		for name, b := range m.Buckets {
			if _, err := tx.Exec(`INSERT INTO buckets (month_key, name, budget) VALUES (?, ?, ?)`, key, name, b.Budget); err != nil {
				return fmt.Errorf("insert bucket %s/%s: %w", key, name, err)
			}
		}
		for hash, e := range m.Expenses {
			var bucket any
			if e.Bucket != nil {
				bucket = *e.Bucket
			}
			if _, err := tx.Exec(
				`INSERT INTO expenses (month_key, hash, date, type, description, amount, status, bucket)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				key, hash, e.Date, e.Type, e.Description, e.Amount, e.Status, bucket,
			); err != nil {
				return fmt.Errorf("insert expense %s/%s: %w", key, hash, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
