package retrieval

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/insightlib/quill/internal/domain/candidate"
)

// fuse merges candidate lists from one or more pools into a single globally
// ranked list, truncated to count.
//
// Total order: score descending, then provenance (curated before extracted),
// then id ascending. The explicit secondary keys make repeated calls
// reproducible instead of leaning on sort stability.
//
// Known limitation: the same text can appear once from the curated pool and
// once as an extracted fragment; no cross-pool dedup is applied, since a
// text-similarity dedup would change result semantics.
func fuse(count int, lists ...[]candidate.Candidate) []candidate.Candidate {
	var merged []candidate.Candidate
	for _, l := range lists {
		merged = append(merged, l...)
	}

	sort.Slice(merged, func(i, j int) bool {
		a, b := &merged[i], &merged[j]
		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if a.Provenance() != b.Provenance() {
			return provenanceRank(a.Provenance()) < provenanceRank(b.Provenance())
		}
		return a.ID() < b.ID()
	})

	if len(merged) > count {
		merged = merged[:count]
	}
	return merged
}

func provenanceRank(p candidate.Provenance) int {
	if p == candidate.Curated {
		return 0
	}
	return 1
}

// quotable is one extractable fragment inside a knowledge item record.
type quotable struct {
	Text        string `json:"text"`
	Attribution string `json:"attribution"`
}

// flattenQuotables converts auxiliary-pool hits (knowledge items carrying a
// "quotables" JSON array) into synthetic extracted candidates. Each fragment
// gets a derived id "<parentID>#<index>" and inherits the parent's match
// score. Parents without usable fragments contribute nothing.
func flattenQuotables(parents []candidate.Candidate) []candidate.Candidate {
	var out []candidate.Candidate
	for _, parent := range parents {
		raw, ok := parent.Field("quotables")
		if !ok || raw == "" {
			continue
		}

		var fragments []quotable
		if err := json.Unmarshal([]byte(raw), &fragments); err != nil {
			continue
		}

		title, _ := parent.Field("title")
		for i, f := range fragments {
			if strings.TrimSpace(f.Text) == "" {
				continue
			}
			fields := map[string]string{
				"text":       f.Text,
				"item_title": title,
			}
			if f.Attribution != "" {
				fields["attribution"] = f.Attribution
			}
			out = append(out, candidate.New(
				fmt.Sprintf("%s#%d", parent.ID(), i),
				parent.Score(),
				candidate.Extracted,
				fields,
			))
		}
	}
	return out
}

// parentID recovers the knowledge item id from a derived fragment id.
// Curated ids pass through unchanged.
func parentID(id string) string {
	if i := strings.IndexByte(id, '#'); i >= 0 {
		return id[:i]
	}
	return id
}
