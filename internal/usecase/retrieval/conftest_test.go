package retrieval

import (
	"context"
	"sync"

	"github.com/insightlib/quill/internal/domain"
	"github.com/insightlib/quill/internal/domain/candidate"
)

// mockIndex serves canned candidates per pool. Quote searches fan out
// concurrently, so call recording is guarded.
type mockIndex struct {
	mu       sync.Mutex
	results  map[string][]candidate.Candidate
	errs     map[string]error
	pools    []string
	lastTagF string
	lastTagV string
	lastMax  int
}

func (m *mockIndex) Search(
	_ context.Context, pool string, _ []float32, maxCount int, tagField, tagValue string,
) ([]candidate.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pools = append(m.pools, pool)
	m.lastTagF, m.lastTagV = tagField, tagValue
	m.lastMax = maxCount
	if err := m.errs[pool]; err != nil {
		return nil, err
	}
	return m.results[pool], nil
}

func (m *mockIndex) calledPools() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.pools...)
}

type mockLibrary struct {
	records  map[string]map[string]any
	err      error
	lastKeys []string
	calls    int
}

func (m *mockLibrary) Fetch(_ context.Context, keys []string) (map[string]map[string]any, error) {
	m.calls++
	m.lastKeys = append([]string(nil), keys...)
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

type mockEmbedder struct {
	vec      []float32
	err      error
	lastText string
	calls    int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func newTestService(idx *mockIndex, lib *mockLibrary, emb *mockEmbedder) *Service {
	return New(idx, lib, emb)
}
