package store

import (
	"fmt"
	"testing"

	"github.com/roach88/nicemap/internal/testutil"
)

// openFixture builds a database from an embedded fixture and opens it.
func openFixture(t *testing.T, name string) *Store {
	t.Helper()
	s, err := Open(testutil.FixtureDB(t, name))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
