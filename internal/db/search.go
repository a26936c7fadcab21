package db

// KNNQuery is the input for vector similarity search against one index.
type KNNQuery struct {
	IndexName string
	Vector    []float32
	K         int
	// TagFilter restricts the candidate universe to entries whose tag field
	// matches, before the KNN clause applies. Both empty or both set.
	TagField     string
	TagValue     string
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search, ordered score-descending
// by the index.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
