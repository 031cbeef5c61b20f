// Package result defines the transient search hit returned to callers.
package result

// Result is a single retrieval hit.
type Result struct {
	content  string
	metadata map[string]any
	score    float64
}

// New creates a search result.
func New(content string, metadata map[string]any, score float64) Result {
	return Result{content: content, metadata: metadata, score: score}
}

// Content returns the matched passage text.
func (r *Result) Content() string { return r.content }

// Metadata returns the document metadata.
func (r *Result) Metadata() map[string]any { return r.metadata }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// SetMetadata replaces a metadata entry.
func (r *Result) SetMetadata(key string, value any) {
	if r.metadata == nil {
		r.metadata = make(map[string]any)
	}
	r.metadata[key] = value
}
