package api

type DocumentPage struct {
	Index int
	Text  string
}

type DocumentContent struct {
	Name  string
	Pages []DocumentPage
}

type ScoredDocument struct {
	// Required
	Content string
	Score   float64

	// Optional
	Title string
}

type EmbedDocumentRequest struct {
	Title  string
	Chunks []string
}

type DocumentEmbedding struct {
	Title  string
	Chunks []string
	Values [][]float32
}
