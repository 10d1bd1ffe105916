package testutil

// FixedRunIDGenerator hands out the same run ID every time.
//
// Unlike engine.FixedGenerator, which walks a list and panics when it runs
// out, this generator never exhausts. A scenario runs one sort per engine, so
// every run it records carries the same ID and golden traces stay stable.
//
// FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id.
// If id is empty, Generate returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
