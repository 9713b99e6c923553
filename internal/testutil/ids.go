package testutil

// FixedIDGenerator returns the same snapshot ID every time.
//
// This keeps dashboard metadata byte-identical across test runs so it can be
// compared against golden files.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id.
// If id is empty, Generate() returns "test-snapshot".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-snapshot"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
