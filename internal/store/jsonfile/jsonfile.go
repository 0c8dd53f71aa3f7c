// Package jsonfile persists the ledger document as a single JSON file,
// the default backend. The file layout is
// {"months":{"<m>--<y>":{"buckets":{...},"expenses":{...}}}}.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"budgeteer/internal/core"
)

type Store struct {
	path string
}

func New(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &Store{path: path}, nil
}

func (s *Store) Load() (*core.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if doc.Months == nil {
		doc.Months = make(map[string]*core.Month)
	}
	for _, m := range doc.Months {
		if m.Buckets == nil {
			m.Buckets = make(map[string]*core.Bucket)
		}
		if m.Expenses == nil {
			m.Expenses = make(map[string]*core.Expense)
		}
	}
	return &doc, nil
}

func (s *Store) Save(doc *core.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
