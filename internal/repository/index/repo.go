// Package index adapts the vector store into the similarity-index boundary:
// ordered, threshold-filtered candidates per named pool.
package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/insightlib/quill/internal/db"
	"github.com/insightlib/quill/internal/domain"
	"github.com/insightlib/quill/internal/domain/candidate"
	"github.com/insightlib/quill/internal/metrics"
)

// store is the consumer interface for pool searches (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Pool describes one independently indexed collection of embedded content.
type Pool struct {
	// Name identifies the pool in config, logs and metrics.
	Name string
	// IndexName is the FT index to search.
	IndexName string
	// KeyPrefix is stripped from entry keys to recover document ids.
	KeyPrefix string
	// Threshold is the minimum similarity score a candidate must meet.
	Threshold float64
	// ReturnFields are the partial fields captured at match time.
	ReturnFields []string
}

// Repo resolves pool names and runs KNN searches against the store.
type Repo struct {
	store store
	pools map[string]Pool
}

// New creates a similarity index repository over the given pools.
func New(s store, pools []Pool) *Repo {
	m := make(map[string]Pool, len(pools))
	for _, p := range pools {
		m[p.Name] = p
	}
	return &Repo{store: s, pools: m}
}

// Search runs a KNN search against one pool and returns candidates ordered by
// score descending, every score at or above the pool threshold, at most
// maxCount entries. Empty tagField/tagValue means no pre-filter.
func (r *Repo) Search(
	ctx context.Context, pool string, vector []float32, maxCount int, tagField, tagValue string,
) ([]candidate.Candidate, error) {
	p, ok := r.pools[pool]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrPoolNotConfigured, pool)
	}

	q := &db.KNNQuery{
		IndexName:    p.IndexName,
		Vector:       vector,
		K:            maxCount,
		TagField:     tagField,
		TagValue:     tagValue,
		ReturnFields: append([]string{"__vector_score"}, p.ReturnFields...),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		metrics.PoolSearchesTotal.WithLabelValues(p.Name, "error").Inc()
		return nil, fmt.Errorf("search pool %s: %w", pool, errWrap(err))
	}
	metrics.PoolSearchesTotal.WithLabelValues(p.Name, "success").Inc()

	// KNN has no server-side score cutoff; the threshold applies here.
	// Entries arrive ordered by distance, so the cut keeps the prefix order.
	out := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if entry.Score < p.Threshold {
			continue
		}
		id := strings.TrimPrefix(entry.Key, p.KeyPrefix)
		out = append(out, candidate.New(id, entry.Score, candidate.Curated, entry.Fields))
	}
	metrics.PoolCandidatesReturned.WithLabelValues(p.Name).Observe(float64(len(out)))

	return out, nil
}

// errWrap tags store failures with the upstream sentinel so transport maps
// them to a hard failure.
func errWrap(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrSearchProviderError, err)
}
