// Package candidate defines the match-time search hit shared by all pools.
package candidate

// Provenance identifies the pool a candidate originated from. Fusion logic
// branches on this discriminant, never on which fields happen to be present.
type Provenance string

const (
	// Curated marks a hit from a dedicated, independently indexed pool
	// (quotes, images, knowledge items).
	Curated Provenance = "curated"
	// Extracted marks a synthetic hit flattened out of a quotable fragment
	// embedded inside a knowledge item.
	Extracted Provenance = "extracted"
)

// Candidate is a single scored hit from a similarity pool. Candidates are
// immutable after construction: fusion merges and reorders, never mutates.
type Candidate struct {
	id         string
	score      float64
	provenance Provenance
	fields     map[string]string
}

// New creates a candidate. fields holds the partial fields captured at match
// time from the index entry.
func New(id string, score float64, provenance Provenance, fields map[string]string) Candidate {
	return Candidate{id: id, score: score, provenance: provenance, fields: fields}
}

// ID returns the candidate identifier. Extracted candidates use a derived id
// of the form "<parentID>#<fragmentIndex>".
func (c *Candidate) ID() string { return c.id }

// Score returns the similarity score in [0,1].
func (c *Candidate) Score() float64 { return c.score }

// Provenance returns the originating pool tag.
func (c *Candidate) Provenance() Provenance { return c.provenance }

// Fields returns the match-time partial fields.
func (c *Candidate) Fields() map[string]string { return c.fields }

// Field returns a single match-time field value.
func (c *Candidate) Field(name string) (string, bool) {
	v, ok := c.fields[name]
	return v, ok
}
