package badger

import "log/slog"

// NewMemoryStore opens an in-memory Store. Intended for tests; nothing is
// persisted and Close discards all data.
func NewMemoryStore() (*Store, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return &Store{
		backend: backend,
		logger:  slog.Default().With("component", "badger-store"),
	}, nil
}
