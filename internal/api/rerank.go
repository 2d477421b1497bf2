package api

// RerankScoreThreshold filters out documents the reranker considers
// irrelevant to the query.
const RerankScoreThreshold = 0.01

type RerankRequest struct {
	// Required
	Query     string
	Documents []string

	// Optional params
	ModelName string
	Limit     int
}

type RerankResponse struct {
	Query     string
	Documents []*ScoredDocument
	ModelName string
}
