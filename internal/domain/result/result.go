// Package result defines the hydrated, response-ready search result.
package result

import "github.com/insightlib/quill/internal/domain/candidate"

// Result is a candidate joined with the full stored record.
//
// Field precedence is match-wins: a field captured at match time overrides the
// hydrated record's value for the same name; record fields fill the rest.
// Empty match-time values never shadow a record value.
type Result struct {
	id         string
	score      float64
	provenance candidate.Provenance
	fields     map[string]any
}

// Hydrate joins a candidate with its stored record. record may be nil when
// hydration failed or found no key; the result then carries only the
// match-time fields.
func Hydrate(c candidate.Candidate, record map[string]any) Result {
	fields := make(map[string]any, len(record)+len(c.Fields()))
	for k, v := range record {
		if v == nil {
			continue
		}
		fields[k] = v
	}
	for k, v := range c.Fields() {
		if v == "" {
			continue
		}
		fields[k] = v
	}
	return Result{
		id:         c.ID(),
		score:      c.Score(),
		provenance: c.Provenance(),
		fields:     fields,
	}
}

// ID returns the result identifier.
func (r *Result) ID() string { return r.id }

// Score returns the similarity score in [0,1].
func (r *Result) Score() float64 { return r.score }

// Provenance returns the originating pool tag.
func (r *Result) Provenance() candidate.Provenance { return r.provenance }

// Fields returns the merged detail fields.
func (r *Result) Fields() map[string]any { return r.fields }
