// Package query defines the validated inputs of the three search paths.
package query

import (
	"fmt"
	"strings"

	"github.com/insightlib/quill/internal/domain"
)

// Context is the declared usage context of a quote search.
type Context string

// Known usage contexts.
const (
	ContextAny      Context = "any"
	ContextBoard    Context = "board"
	ContextLinkedIn Context = "linkedin"
	ContextPitch    Context = "pitch"
	ContextWorkshop Context = "workshop"
)

// Search parameter limits and per-path count defaults.
const (
	MaxQueryLength = 4096
	MaxCount       = 50

	DefaultQuoteCount     = 5
	DefaultImageCount     = 12
	DefaultKnowledgeCount = 20
)

// AnyChartType disables chart-type filtering on the image path.
const AnyChartType = "any"

// validate normalizes the query text and enforces shared limits, returning the
// trimmed text and the clamped count.
func validate(text string, count, defaultCount int) (string, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", 0, fmt.Errorf("%w: query text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxQueryLength {
		return "", 0, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if count <= 0 {
		count = defaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}
	return text, count, nil
}

// QuoteQuery is a validated quote search.
type QuoteQuery struct {
	text    string
	context Context
	count   int
}

// NewQuoteQuery validates a quote search. An empty or unknown context is
// treated as "any"; count defaults to DefaultQuoteCount.
func NewQuoteQuery(text string, ctx Context, count int) (QuoteQuery, error) {
	text, count, err := validate(text, count, DefaultQuoteCount)
	if err != nil {
		return QuoteQuery{}, err
	}
	switch ctx {
	case ContextBoard, ContextLinkedIn, ContextPitch, ContextWorkshop:
	default:
		ctx = ContextAny
	}
	return QuoteQuery{text: text, context: ctx, count: count}, nil
}

// Text returns the trimmed query text.
func (q *QuoteQuery) Text() string { return q.text }

// Context returns the usage context.
func (q *QuoteQuery) Context() Context { return q.context }

// Count returns the upper bound on returned results.
func (q *QuoteQuery) Count() int { return q.count }

// ImageQuery is a validated image search.
type ImageQuery struct {
	text      string
	chartType string
	count     int
}

// NewImageQuery validates an image search. An empty chart type is treated as
// "any"; count defaults to DefaultImageCount.
func NewImageQuery(text, chartType string, count int) (ImageQuery, error) {
	text, count, err := validate(text, count, DefaultImageCount)
	if err != nil {
		return ImageQuery{}, err
	}
	chartType = strings.TrimSpace(chartType)
	if chartType == "" {
		chartType = AnyChartType
	}
	return ImageQuery{text: text, chartType: chartType, count: count}, nil
}

// Text returns the trimmed query text.
func (q *ImageQuery) Text() string { return q.text }

// ChartType returns the requested chart type, or "any".
func (q *ImageQuery) ChartType() string { return q.chartType }

// Count returns the upper bound on returned results.
func (q *ImageQuery) Count() int { return q.count }

// KnowledgeQuery is a validated generic knowledge search.
type KnowledgeQuery struct {
	text  string
	count int
}

// NewKnowledgeQuery validates a knowledge search. Count defaults to
// DefaultKnowledgeCount.
func NewKnowledgeQuery(text string, count int) (KnowledgeQuery, error) {
	text, count, err := validate(text, count, DefaultKnowledgeCount)
	if err != nil {
		return KnowledgeQuery{}, err
	}
	return KnowledgeQuery{text: text, count: count}, nil
}

// Text returns the trimmed query text.
func (q *KnowledgeQuery) Text() string { return q.text }

// Count returns the upper bound on returned results.
func (q *KnowledgeQuery) Count() int { return q.count }
