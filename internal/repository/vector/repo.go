// Package vector implements the vector document store over a Redis
// FT.SEARCH index.
package vector

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/memovox/memovox/internal/db"
	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/domain/result"
	"github.com/memovox/memovox/internal/domain/transcript"
)

// store is the narrow database contract the repository needs.
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repository stores memo documents as hashes and searches them via KNN.
type Repository struct {
	store     store
	keyPrefix string
	indexName string

	hnswM           int
	hnswEFConstruct int
}

// Config holds index construction parameters.
type Config struct {
	KeyPrefix       string
	HNSWM           int
	HNSWEFConstruct int
}

// New creates a vector repository.
func New(s store, cfg Config) *Repository {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "memovox:"
	}
	return &Repository{
		store:           s,
		keyPrefix:       prefix + "memo:",
		indexName:       prefix + "memo:idx",
		hnswM:           cfg.HNSWM,
		hnswEFConstruct: cfg.HNSWEFConstruct,
	}
}

// EnsureIndex creates the memo FT index if absent.
func (r *Repository) EnsureIndex(ctx context.Context, dimensions int) error {
	exists, err := r.store.IndexExists(ctx, r.indexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.indexName,
		Prefixes: []string{r.keyPrefix},
		Fields: []db.IndexField{
			{Name: transcript.IdentityKey, Type: db.IndexFieldTag},
			{Name: "recording_ts", Type: db.IndexFieldNumeric},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorDim:         dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.hnswM,
				VectorEFConstruct: r.hnswEFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Add upserts a memo document keyed by its relational identity.
func (r *Repository) Add(ctx context.Context, id string, content string, vector []float32, metadata map[string]string) error {
	fields := map[string]string{
		transcript.IdentityKey: id,
		"content":            content,
		"vector":             encodeVector(vector),
	}
	for k, v := range metadata {
		fields[k] = v
	}

	if err := r.store.HSet(ctx, r.keyPrefix+id, fields); err != nil {
		return fmt.Errorf("add document %s: %w", id, err)
	}
	return nil
}

// Get returns a document's fields, or domain.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (map[string]string, error) {
	fields, err := r.store.HGetAll(ctx, r.keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	delete(fields, "vector")
	return fields, nil
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.keyPrefix+id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// SearchKNN runs similarity search, optionally constrained to an
// identity set via a tag union filter.
func (r *Repository) SearchKNN(ctx context.Context, vector []float32, k int, idFilter []string) ([]result.Result, error) {
	q := &db.KNNQuery{
		IndexName: r.indexName,
		Vector:    vector,
		K:         k,
	}
	if len(idFilter) > 0 {
		q.Filter = db.TagFilter{Key: transcript.IdentityKey, Values: idFilter}
	}

	res, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	out := make([]result.Result, 0, len(res.Entries))
	for _, e := range res.Entries {
		metadata := make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			if k == "content" || k == "vector" {
				continue
			}
			metadata[k] = v
		}
		out = append(out, result.New(e.Fields["content"], metadata, e.Score))
	}
	return out, nil
}

// encodeVector renders float32s as the little-endian blob FT.SEARCH expects.
func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
