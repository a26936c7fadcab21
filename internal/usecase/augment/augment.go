// Package augment applies domain hints to raw query text before embedding.
// Every transform here is pure and deterministic.
package augment

import (
	"strings"

	"github.com/insightlib/quill/internal/domain/query"
)

// contextHints maps a declared usage context to the phrase appended to the
// query. An unknown or "any" context leaves the query untouched.
var contextHints = map[query.Context]string{
	query.ContextBoard:    "executive leadership C-suite strategic business impact",
	query.ContextLinkedIn: "professional audience thought leadership engagement",
	query.ContextPitch:    "investor startup traction value proposition",
	query.ContextWorkshop: "team facilitation hands-on learning exercise",
}

// imageSuffix biases image retrieval toward visual content regardless of the
// requested chart type.
const imageSuffix = "chart visualization"

// Quote augments a quote search query with the usage-context hint.
func Quote(text string, ctx query.Context) string {
	hint, ok := contextHints[ctx]
	if !ok {
		return text
	}
	return text + " " + hint
}

// Image augments an image search query with the chart type (underscores
// spaced out) and the generic visual suffix. "any" adds only the suffix.
func Image(text, chartType string) string {
	if chartType != query.AnyChartType && chartType != "" {
		text = text + " " + strings.ReplaceAll(chartType, "_", " ")
	}
	return text + " " + imageSuffix
}
