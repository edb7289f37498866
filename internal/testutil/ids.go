package testutil

// FixedIDGenerator returns the same reasoner id every time.
//
// Scenario runs pin the id so their logs and saved snapshots are
// reproducible.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id. An empty id becomes
// "test-reasoner".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-reasoner"
	}
	return &FixedIDGenerator{id: id}
}

// Generate implements engine.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
