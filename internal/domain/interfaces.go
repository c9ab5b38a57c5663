package domain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator assigns identifiers to goals, plans and recommendations.
// It is supplied by the caller so recorded fixtures stay reproducible.
type IDGenerator interface {
	// NewID returns an identifier for an entity of the given kind. parts is
	// content that identifies the entity (parent id, name, timestamps).
	NewID(kind string, parts ...string) string
}

// SequenceGenerator hands out "<kind>-<n>" identifiers from a per-kind counter
type SequenceGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewSequenceGenerator creates a counter-based generator starting at 1
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{counters: make(map[string]int)}
}

// NewID implements IDGenerator. parts are ignored.
func (g *SequenceGenerator) NewID(kind string, _ ...string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters[kind]++
	return fmt.Sprintf("%s-%d", kind, g.counters[kind])
}

// idNamespace scopes name-based UUIDs generated by ContentHashGenerator
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/aristath/wealthplan"))

// ContentHashGenerator derives SHA-1 name-based UUIDs from the entity content.
// Identical content always yields the same identifier.
type ContentHashGenerator struct{}

// NewID implements IDGenerator
func (ContentHashGenerator) NewID(kind string, parts ...string) string {
	name := kind + "|" + strings.Join(parts, "|")
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}
