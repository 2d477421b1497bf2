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

package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alan-mat/sway/internal/api"
	"github.com/alan-mat/sway/internal/document"
	"github.com/alan-mat/sway/internal/provider"
	"github.com/alan-mat/sway/internal/session"
	"github.com/alan-mat/sway/internal/vector"
)

// Indexer builds a similarity index over one document: load, split,
// embed, upsert. Each build writes a fresh collection; the session's
// active collection is swapped only after the new one is fully written,
// so a reader never observes a half-built or mixed index.
type Indexer struct {
	store    vector.Store
	embedder provider.Embedder
	splitter *document.Splitter
}

func New(store vector.Store, embedder provider.Embedder) *Indexer {
	return &Indexer{
		store:    store,
		embedder: embedder,
		splitter: document.NewSplitter(),
	}
}

// BuildIndex indexes the PDF at path into a new collection and makes it
// the session's active one, dropping the collection it replaces.
// Returns the number of chunks indexed.
func (ix *Indexer) BuildIndex(ctx context.Context, sess *session.Session, path string) (int, error) {
	doc, err := document.LoadPDF(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load document: %w", err)
	}
	return ix.IndexDocument(ctx, sess, doc)
}

// IndexDocument indexes already loaded document content. See BuildIndex.
func (ix *Indexer) IndexDocument(ctx context.Context, sess *session.Session, doc *api.DocumentContent) (int, error) {
	chunks, err := ix.splitter.Split(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to split document '%s': %w", doc.Name, err)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document '%s' produced no chunks", doc.Name)
	}

	texts := make([]string, 0, len(chunks))
	pages := make([]int, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
		pages = append(pages, chunk.Page)
	}

	embeddings, err := ix.embedder.EmbedDocuments(ctx, []*api.EmbedDocumentRequest{{
		Title:  doc.Name,
		Chunks: texts,
	}})
	if err != nil {
		return 0, fmt.Errorf("failed to embed %d chunks of '%s': %w", len(chunks), doc.Name, err)
	}

	collectionName := "doc-" + uuid.NewString()
	err = ix.store.CreateCollection(ctx, vector.Collection{
		Name:       collectionName,
		Dimensions: ix.embedder.GetDimensions(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create collection: %w", err)
	}

	points := vector.CreatePoints(embeddings[0], pages)
	if err := ix.store.Upsert(ctx, collectionName, points); err != nil {
		// never leave a partial index behind
		if derr := ix.store.DeleteCollection(ctx, collectionName); derr != nil {
			slog.Warn("failed to clean up partial collection", "name", collectionName, "err", derr)
		}
		return 0, fmt.Errorf("failed to upsert points to vector store: %w", err)
	}

	old := sess.Collection
	sess.Collection = collectionName
	sess.DocumentName = doc.Name

	if old != "" {
		if err := ix.store.DeleteCollection(ctx, old); err != nil {
			slog.Warn("failed to drop replaced collection", "name", old, "err", err)
		}
	}

	slog.Info("indexed document", "name", doc.Name, "collection", collectionName, "chunks", len(points))
	return len(points), nil
}
