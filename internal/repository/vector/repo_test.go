package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/memovox/memovox/internal/db"
	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/domain/transcript"
)

// --- Fake store ---

type fakeStore struct {
	hashes      map[string]map[string]string
	indexExists bool
	createdDef  *db.IndexDefinition
	lastQuery   *db.KNNQuery
	searchRes   *db.SearchResult
	searchErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{hashes: map[string]map[string]string{}, searchRes: &db.SearchResult{}}
}

func (f *fakeStore) HSet(_ context.Context, key string, fields map[string]string) error {
	f.hashes[key] = fields
	return nil
}

func (f *fakeStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	return f.hashes[key], nil
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	delete(f.hashes, key)
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.hashes[key]
	return ok, nil
}

func (f *fakeStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	f.createdDef = def
	return nil
}

func (f *fakeStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return f.indexExists, nil
}

func (f *fakeStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	f.lastQuery = q
	return f.searchRes, f.searchErr
}

// --- Tests ---

func TestEnsureIndex_CreatesSchemaOnce(t *testing.T) {
	store := newFakeStore()
	repo := New(store, Config{KeyPrefix: "memovox:", HNSWM: 16, HNSWEFConstruct: 200})

	if err := repo.EnsureIndex(context.Background(), 1536); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if store.createdDef == nil {
		t.Fatal("index not created")
	}
	if store.createdDef.Name != "memovox:memo:idx" {
		t.Errorf("index name = %q", store.createdDef.Name)
	}

	var hasTag, hasVector bool
	for _, f := range store.createdDef.Fields {
		switch f.Type {
		case db.IndexFieldTag:
			if f.Name == transcript.IdentityKey {
				hasTag = true
			}
		case db.IndexFieldVector:
			hasVector = f.VectorDim == 1536
		}
	}
	if !hasTag || !hasVector {
		t.Errorf("schema missing identity tag or vector field: %+v", store.createdDef.Fields)
	}

	// Second call is a no-op when the index exists.
	store.indexExists = true
	store.createdDef = nil
	if err := repo.EnsureIndex(context.Background(), 1536); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if store.createdDef != nil {
		t.Error("index recreated despite existing")
	}
}

func TestAddAndGet_RoundTrip(t *testing.T) {
	store := newFakeStore()
	repo := New(store, Config{})

	err := repo.Add(context.Background(), "7", "memo text", []float32{0.1, 0.2},
		map[string]string{"recording_date": "2023-10-05"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	fields, err := repo.Get(context.Background(), "7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fields["content"] != "memo text" {
		t.Errorf("content = %q", fields["content"])
	}
	if fields[transcript.IdentityKey] != "7" {
		t.Errorf("identity = %q", fields[transcript.IdentityKey])
	}
	if _, ok := fields["vector"]; ok {
		t.Error("raw vector leaked into Get result")
	}

	if err := repo.Delete(context.Background(), "7"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(context.Background(), "7"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestGet_Missing_NotFound(t *testing.T) {
	repo := New(newFakeStore(), Config{})

	_, err := repo.Get(context.Background(), "404")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchKNN_IdentityFilterApplied(t *testing.T) {
	store := newFakeStore()
	store.searchRes = &db.SearchResult{
		Total: 1,
		Entries: []db.SearchEntry{{
			Key:   "memovox:memo:7",
			Score: 0.91,
			Fields: map[string]string{
				"content":              "saw the dentist",
				transcript.IdentityKey: "7",
			},
		}},
	}
	repo := New(store, Config{})

	hits, err := repo.SearchKNN(context.Background(), []float32{0.1}, 5, []string{"7", "9"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if store.lastQuery.Filter.Key != transcript.IdentityKey {
		t.Errorf("filter key = %q", store.lastQuery.Filter.Key)
	}
	if len(store.lastQuery.Filter.Values) != 2 {
		t.Errorf("filter values = %v", store.lastQuery.Filter.Values)
	}

	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].Content() != "saw the dentist" {
		t.Errorf("content = %q", hits[0].Content())
	}
	if hits[0].Metadata()[transcript.IdentityKey] != "7" {
		t.Errorf("identity metadata = %v", hits[0].Metadata())
	}
	if _, ok := hits[0].Metadata()["content"]; ok {
		t.Error("content duplicated into metadata")
	}
}

func TestSearchKNN_NoFilter_Unconstrained(t *testing.T) {
	store := newFakeStore()
	repo := New(store, Config{})

	if _, err := repo.SearchKNN(context.Background(), []float32{0.1}, 5, nil); err != nil {
		t.Fatalf("search: %v", err)
	}
	if !store.lastQuery.Filter.IsEmpty() {
		t.Errorf("filter = %+v, want empty", store.lastQuery.Filter)
	}
}
