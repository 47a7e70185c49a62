// ABOUTME: Storage aggregate bundling the per-entity stores over one connection
// ABOUTME: Single entry point the orchestrator and batch readers depend on
package sqlite

// Storage bundles the typed stores over a single SQLite connection.
type Storage struct {
	db         *DB
	Households *HouseholdStore
	Sessions   *SessionStore
	Turns      *TurnStore
	Summaries  *SummaryStore
}

// NewStorage opens (or creates) the database at path and wires all stores.
// An empty path falls back to the XDG default location.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		path = DefaultDBPath()
	}
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

// NewStorageInMemory wires all stores over an in-memory database (for testing).
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:         db,
		Households: NewHouseholdStore(db),
		Sessions:   NewSessionStore(db),
		Turns:      NewTurnStore(db),
		Summaries:  NewSummaryStore(db),
	}
}

// DB exposes the underlying connection wrapper.
func (s *Storage) DB() *DB {
	return s.db
}

// Close closes the underlying connection.
func (s *Storage) Close() error {
	return s.db.Close()
}
