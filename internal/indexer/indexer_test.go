// Copyright 2025 Alan Matykiewicz
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package indexer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alan-mat/sway/internal/api"
	"github.com/alan-mat/sway/internal/indexer"
	"github.com/alan-mat/sway/internal/session"
	"github.com/alan-mat/sway/internal/vector"
)

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedQuery(_ context.Context, q string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (fakeEmbedder) EmbedDocuments(_ context.Context, docs []*api.EmbedDocumentRequest) ([]*api.DocumentEmbedding, error) {
	embeddings := make([]*api.DocumentEmbedding, 0, len(docs))
	for _, doc := range docs {
		values := make([][]float32, len(doc.Chunks))
		for i := range values {
			values[i] = []float32{0.1, 0.2, 0.3}
		}
		embeddings = append(embeddings, &api.DocumentEmbedding{
			Title:  doc.Title,
			Chunks: doc.Chunks,
			Values: values,
		})
	}
	return embeddings, nil
}

func (fakeEmbedder) GetDimensions() uint {
	return 3
}

// fakeStore tracks live collections and their point counts.
type fakeStore struct {
	collections map[string]int
	failUpsert  bool
	deleted     []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string]int)}
}

func (s *fakeStore) CreateCollection(_ context.Context, c vector.Collection) error {
	s.collections[c.Name] = 0
	return nil
}

func (s *fakeStore) DeleteCollection(_ context.Context, name string) error {
	delete(s.collections, name)
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *fakeStore) Upsert(_ context.Context, name string, points []*vector.Point) error {
	if s.failUpsert {
		return errors.New("upsert failed")
	}
	s.collections[name] += len(points)
	return nil
}

func (s *fakeStore) Query(_ context.Context, _ *vector.QueryParams) ([]*vector.ScoredPoint, error) {
	return nil, nil
}

func (s *fakeStore) Close() error { return nil }

func testDocument(name string) *api.DocumentContent {
	return &api.DocumentContent{
		Name: name,
		Pages: []api.DocumentPage{
			{Index: 1, Text: strings.Repeat("photosynthesis turns light into sugar. ", 60)},
			{Index: 2, Text: strings.Repeat("chlorophyll absorbs red and blue light. ", 60)},
		},
	}
}

func TestIndexDocument(t *testing.T) {
	store := newFakeStore()
	ix := indexer.New(store, fakeEmbedder{})
	sess := session.New()

	chunks, err := ix.IndexDocument(context.Background(), sess, testDocument("bio.pdf"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if chunks == 0 {
		t.Fatal("expected at least one chunk")
	}

	if sess.Collection == "" {
		t.Fatal("expected session collection to be set")
	}
	if sess.DocumentName != "bio.pdf" {
		t.Errorf("expected document name 'bio.pdf', got '%s'", sess.DocumentName)
	}
	if got := store.collections[sess.Collection]; got != chunks {
		t.Errorf("expected %d points in collection, got %d", chunks, got)
	}
}

func TestIndexDocumentReplacesCollection(t *testing.T) {
	store := newFakeStore()
	ix := indexer.New(store, fakeEmbedder{})
	sess := session.New()

	ctx := context.Background()
	if _, err := ix.IndexDocument(ctx, sess, testDocument("first.pdf")); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	first := sess.Collection

	if _, err := ix.IndexDocument(ctx, sess, testDocument("second.pdf")); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if sess.Collection == first {
		t.Error("expected a fresh collection for the second document")
	}
	if _, ok := store.collections[first]; ok {
		t.Error("expected the replaced collection to be dropped")
	}
	if len(store.collections) != 1 {
		t.Errorf("expected exactly one live collection, got %d", len(store.collections))
	}
}

func TestIndexDocumentUpsertFailure(t *testing.T) {
	store := newFakeStore()
	store.failUpsert = true
	ix := indexer.New(store, fakeEmbedder{})
	sess := session.New()
	sess.Collection = "doc-existing"
	sess.DocumentName = "old.pdf"
	store.collections["doc-existing"] = 4

	_, err := ix.IndexDocument(context.Background(), sess, testDocument("new.pdf"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	// the old index survives, the partial one does not
	if sess.Collection != "doc-existing" {
		t.Errorf("expected session to keep its old collection, got '%s'", sess.Collection)
	}
	if sess.DocumentName != "old.pdf" {
		t.Errorf("expected session to keep its old document, got '%s'", sess.DocumentName)
	}
	if len(store.collections) != 1 {
		t.Errorf("expected only the old collection to remain, got %d", len(store.collections))
	}
	if _, ok := store.collections["doc-existing"]; !ok {
		t.Error("expected the old collection to survive")
	}
}

func TestIndexDocumentEmpty(t *testing.T) {
	store := newFakeStore()
	ix := indexer.New(store, fakeEmbedder{})
	sess := session.New()

	doc := &api.DocumentContent{Name: "empty.pdf"}
	_, err := ix.IndexDocument(context.Background(), sess, doc)
	if err == nil {
		t.Fatal("expected error for empty document, got nil")
	}
	if len(store.collections) != 0 {
		t.Errorf("expected no collections to be created, got %d", len(store.collections))
	}
}
