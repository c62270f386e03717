package store

import "github.com/google/uuid"

// IDGenerator produces compilation IDs.
// Implemented by UUIDv7Generator (production) and the generators in
// testutil (tests and the scenario harness).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 IDs, so IDs of later
// compilations sort after earlier ones.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SetIDGenerator replaces the generator used for compilations recorded
// without an ID. A nil generator restores UUIDv7Generator.
func (s *Store) SetIDGenerator(g IDGenerator) {
	if g == nil {
		g = UUIDv7Generator{}
	}
	s.ids = g
}
