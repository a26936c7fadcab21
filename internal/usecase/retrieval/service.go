// Package retrieval implements the semantic search pipeline:
// augment → embed → pool searches → fuse → hydrate → respond.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insightlib/quill/internal/domain"
	"github.com/insightlib/quill/internal/domain/candidate"
	"github.com/insightlib/quill/internal/domain/query"
	"github.com/insightlib/quill/internal/domain/result"
	"github.com/insightlib/quill/internal/logger"
	"github.com/insightlib/quill/internal/metrics"
	"github.com/insightlib/quill/internal/usecase/augment"
)

// Config wires pool names and record key prefixes into the pipeline.
type Config struct {
	QuotePool     string
	QuotablesPool string
	ImagePool     string
	KnowledgePool string

	QuoteRecordPrefix     string
	ImageRecordPrefix     string
	KnowledgeRecordPrefix string

	// ChartTypeField is the tag field filtered on the image path.
	ChartTypeField string
}

// DefaultConfig returns the standard pool wiring.
func DefaultConfig() Config {
	return Config{
		QuotePool:             "quotes",
		QuotablesPool:         "quotables",
		ImagePool:             "images",
		KnowledgePool:         "knowledge",
		QuoteRecordPrefix:     domain.KeyPrefix + "quote:",
		ImageRecordPrefix:     domain.KeyPrefix + "image:",
		KnowledgeRecordPrefix: domain.KeyPrefix + "item:",
		ChartTypeField:        "chart_type",
	}
}

// Stats carries per-provenance result counts for observability.
type Stats struct {
	Curated   int
	Extracted int
}

// Response is the assembled outcome of one search request.
type Response struct {
	Results []result.Result
	Stats   Stats
}

// Service executes the three retrieval operations. Requests are stateless;
// nothing is shared across calls beyond the injected collaborators.
type Service struct {
	index   SimilarityIndex
	library Library
	embed   domain.Embedder
	cfg     Config
}

// New creates a retrieval service with the default pool wiring.
func New(index SimilarityIndex, library Library, embed domain.Embedder) *Service {
	return &Service{index: index, library: library, embed: embed, cfg: DefaultConfig()}
}

// WithConfig overrides the pool wiring.
func (s *Service) WithConfig(cfg Config) *Service {
	s.cfg = cfg
	return s
}

// SearchQuotes retrieves quotes from the curated pool and quotable fragments
// extracted from knowledge items, fused into one ranked list. The two pool
// searches share a single embedding and run concurrently.
func (s *Service) SearchQuotes(ctx context.Context, q query.QuoteQuery) (Response, error) {
	text := augment.Quote(q.Text(), q.Context())

	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return Response{}, fmt.Errorf("vectorize query: %w", err)
	}

	var curated, aux []candidate.Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curated, err = s.index.Search(gctx, s.cfg.QuotePool, emb.Embedding, q.Count(), "", "")
		return err
	})
	g.Go(func() error {
		var err error
		aux, err = s.index.Search(gctx, s.cfg.QuotablesPool, emb.Embedding, q.Count(), "", "")
		return err
	})
	if err := g.Wait(); err != nil {
		return Response{}, err
	}

	fused := fuse(q.Count(), curated, flattenQuotables(aux))
	return s.respond(ctx, fused, s.quoteKey), nil
}

// SearchImages retrieves chart images from the single image pool, optionally
// pre-filtered by chart type.
func (s *Service) SearchImages(ctx context.Context, q query.ImageQuery) (Response, error) {
	text := augment.Image(q.Text(), q.ChartType())

	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return Response{}, fmt.Errorf("vectorize query: %w", err)
	}

	tagField, tagValue := "", ""
	if q.ChartType() != query.AnyChartType {
		tagField, tagValue = s.cfg.ChartTypeField, q.ChartType()
	}

	hits, err := s.index.Search(ctx, s.cfg.ImagePool, emb.Embedding, q.Count(), tagField, tagValue)
	if err != nil {
		return Response{}, err
	}

	fused := fuse(q.Count(), hits)
	return s.respond(ctx, fused, s.imageKey), nil
}

// SearchKnowledge retrieves generic knowledge items. The raw query embeds
// unaugmented.
func (s *Service) SearchKnowledge(ctx context.Context, q query.KnowledgeQuery) (Response, error) {
	emb, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		return Response{}, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.index.Search(ctx, s.cfg.KnowledgePool, emb.Embedding, q.Count(), "", "")
	if err != nil {
		return Response{}, err
	}

	fused := fuse(q.Count(), hits)
	return s.respond(ctx, fused, s.knowledgeKey), nil
}

// respond hydrates the fused candidates and assembles the response. Hydration
// is soft-fail: a bulk fetch error degrades every result to its match-time
// fields instead of failing the request.
func (s *Service) respond(
	ctx context.Context, fused []candidate.Candidate, keyFor func(*candidate.Candidate) string,
) Response {
	keys := make([]string, len(fused))
	for i := range fused {
		keys[i] = keyFor(&fused[i])
	}

	records, err := s.library.Fetch(ctx, keys)
	if err != nil {
		metrics.HydrationFailuresTotal.Inc()
		logger.FromContext(ctx).Warn("hydration failed, serving match-time fields",
			zap.Int("candidates", len(fused)),
			zap.Error(err),
		)
		records = nil
	}

	resp := Response{Results: make([]result.Result, len(fused))}
	for i := range fused {
		resp.Results[i] = result.Hydrate(fused[i], records[keys[i]])
		switch fused[i].Provenance() {
		case candidate.Extracted:
			resp.Stats.Extracted++
		default:
			resp.Stats.Curated++
		}
	}
	return resp
}

func (s *Service) quoteKey(c *candidate.Candidate) string {
	if c.Provenance() == candidate.Extracted {
		return s.cfg.KnowledgeRecordPrefix + parentID(c.ID())
	}
	return s.cfg.QuoteRecordPrefix + c.ID()
}

func (s *Service) imageKey(c *candidate.Candidate) string {
	return s.cfg.ImageRecordPrefix + c.ID()
}

func (s *Service) knowledgeKey(c *candidate.Candidate) string {
	return s.cfg.KnowledgeRecordPrefix + c.ID()
}
