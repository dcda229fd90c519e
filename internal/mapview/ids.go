package mapview

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces element ids for a rendered page.
type IDGenerator interface {
	Generate(prefix string) string
}

// UUIDGenerator derives ids from random UUIDs: "map_3f2a...".
// Ids differ between runs; they carry no meaning beyond the page.
type UUIDGenerator struct{}

// Generate returns prefix + "_" + 32 hex digits.
func (UUIDGenerator) Generate(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SequenceGenerator returns predictable ids ("map_1", "map_2", ...) for
// golden-file tests.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu sync.Mutex
	n  int
}

// NewSequenceGenerator creates a generator whose first id ends in 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

// Generate returns the next id for prefix.
func (g *SequenceGenerator) Generate(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s_%d", prefix, g.n)
}
