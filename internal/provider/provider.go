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

package provider

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alan-mat/sway/internal/api"
)

var (
	ErrInvalidLMProviderType = errors.New("no lmprovider found for given name")
	ErrInvalidEmbedderType   = errors.New("no embedder found for given name")
)

// MissingKeyError reports an absent API credential. Factories return it
// at construction time so a misconfigured process fails at startup, not
// on the first request.
type MissingKeyError struct {
	Var string
}

func (e MissingKeyError) Error() string {
	return fmt.Sprintf("required environment variable '%s' is not set", e.Var)
}

// LMProvider is a hosted language model. Both methods block until the
// remote service answers; failures are returned to the caller and are
// never retried internally.
type LMProvider interface {
	Generate(ctx context.Context, req api.GenerationRequest) (string, error)
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

type Embedder interface {
	EmbedQuery(ctx context.Context, q string) ([]float32, error)
	EmbedDocuments(ctx context.Context, docs []*api.EmbedDocumentRequest) ([]*api.DocumentEmbedding, error)
	GetDimensions() uint
}

type Reranker interface {
	Rerank(ctx context.Context, req api.RerankRequest) (*api.RerankResponse, error)
}

func NewLMProvider(name string) (LMProvider, error) {
	switch name {
	case "groq":
		key, err := requireEnv("GROQ_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewGroqProvider(key), nil
	case "openai":
		key, err := requireEnv("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(key), nil
	case "gemini":
		key, err := requireEnv("GEMINI_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewGeminiProvider(key)
	default:
		return nil, ErrInvalidLMProviderType
	}
}

func NewEmbedder(name string) (Embedder, error) {
	switch name {
	case "openai":
		key, err := requireEnv("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(key), nil
	case "gemini":
		key, err := requireEnv("GEMINI_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewGeminiProvider(key)
	default:
		return nil, ErrInvalidEmbedderType
	}
}

func NewReranker() (Reranker, error) {
	key, err := requireEnv("COHERE_API_KEY")
	if err != nil {
		return nil, err
	}
	return NewCohereProvider(key), nil
}

func requireEnv(name string) (string, error) {
	val := os.Getenv(name)
	if val == "" {
		return "", MissingKeyError{Var: name}
	}
	return val, nil
}
