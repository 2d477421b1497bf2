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

package vector

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/alan-mat/sway/internal/api"
)

// Store is a similarity-searchable index of embedded document chunks.
// A collection, once written, is only ever queried; replacing a document
// means creating a fresh collection and deleting the old one.
type Store interface {
	CreateCollection(ctx context.Context, collection Collection) error
	DeleteCollection(ctx context.Context, collectionName string) error

	Upsert(ctx context.Context, collectionName string, points []*Point) error

	Query(ctx context.Context, params *QueryParams) ([]*ScoredPoint, error)

	Close() error
}

type Collection struct {
	Name       string
	Dimensions uint
}

type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

type ScoredPoint struct {
	ID      string
	Score   float32
	Payload map[string]string
}

// CreatePoints pairs a document's chunk embeddings with their text
// payloads. pages carries the source page per chunk, parallel to
// doc.Chunks; it may be shorter when page attribution is unknown.
func CreatePoints(doc *api.DocumentEmbedding, pages []int) []*Point {
	points := make([]*Point, 0, len(doc.Chunks))
	for i := range len(doc.Chunks) {
		payload := map[string]any{
			"title": doc.Title,
			"text":  doc.Chunks[i],
		}
		if i < len(pages) {
			payload["page"] = strconv.Itoa(pages[i])
		}

		points = append(points, &Point{
			ID:      uuid.NewString(),
			Vector:  doc.Values[i],
			Payload: payload,
		})
	}
	return points
}

type QueryParams struct {
	collection  string
	query       []float32
	withPayload bool
	limit       uint
}

type QueryParamsOption func(*QueryParams)

func NewQueryParams(collection string, query []float32, opts ...QueryParamsOption) *QueryParams {
	qp := &QueryParams{
		collection:  collection,
		query:       query,
		withPayload: false,
		limit:       0,
	}

	for _, opt := range opts {
		opt(qp)
	}
	return qp
}

func (qp QueryParams) Collection() string {
	return qp.collection
}

func (qp QueryParams) Limit() uint {
	return qp.limit
}

func WithPayload(w bool) QueryParamsOption {
	return func(qp *QueryParams) {
		qp.withPayload = w
	}
}

func WithLimit(limit uint) QueryParamsOption {
	return func(qp *QueryParams) {
		qp.limit = limit
	}
}
