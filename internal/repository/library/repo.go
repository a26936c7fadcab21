// Package library bulk-fetches full content records for hydration.
package library

import (
	"context"
	"encoding/json"
	"fmt"
)

// store is the consumer interface for bulk record reads (ISP).
type store interface {
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// Repo reads full records from the primary store.
type Repo struct {
	store store
}

// New creates a library repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Fetch retrieves the full records for the given keys in one pipelined round
// trip and returns them keyed by store key. Keys without a stored record are
// absent from the returned map; an unparseable record is skipped rather than
// failing the batch.
func (r *Repo) Fetch(ctx context.Context, keys []string) (map[string]map[string]any, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("bulk fetch %d records: %w", len(keys), err)
	}

	records := make(map[string]map[string]any, len(keys))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		records[keys[i]] = rec
	}

	return records, nil
}
