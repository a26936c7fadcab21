package retrieval

import (
	"context"

	"github.com/insightlib/quill/internal/domain/candidate"
)

// SimilarityIndex is the ranked-neighbor oracle boundary. Implementations
// guarantee: scores ≥ the pool's threshold, order score-descending, at most
// maxCount entries, and the optional tag pre-filter applied before
// thresholding. Empty tagField/tagValue means no filter.
type SimilarityIndex interface {
	Search(
		ctx context.Context, pool string, vector []float32,
		maxCount int, tagField, tagValue string,
	) ([]candidate.Candidate, error)
}

// Library bulk-fetches full records by store key in a single round trip.
type Library interface {
	Fetch(ctx context.Context, keys []string) (map[string]map[string]any, error)
}
