// Package store defines the persistence boundary for the ledger document.
// Stores always read and write the document as a whole; there are no
// partial updates and no migrations between shapes of the document.
package store

import "budgeteer/internal/core"

type Store interface {
	// Load reads the entire document. A store with no prior data returns
	// a fresh empty document, not an error; unreadable data is fatal.
	Load() (*core.Document, error)

	// Save overwrites the stored document in full. The in-memory document
	// remains the source of truth; the store is a write-through mirror.
	Save(doc *core.Document) error
}
