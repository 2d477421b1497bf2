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

package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/alan-mat/sway/internal/api"
	"github.com/alan-mat/sway/internal/provider"
	"github.com/alan-mat/sway/internal/session"
	"github.com/alan-mat/sway/internal/vector"
)

const systemPrompt = `You are a helpful academic assistant. When asked questions, please:
    1. Use the PDF retriever tool if available to find relevant information
    2. Provide clear, concise answers with citations where appropriate
    3. If you're unsure about something, admit it and suggest alternatives
    4. Keep responses focused on academic content and student support`

// Apology is the only failure text end users ever see from this
// pipeline; error detail stays in the logs.
const Apology = "I apologize, but I encountered an error. Please try asking your question again."

const (
	retrieverToolName = "retrieve_document"
	retrieverLimit    = 4
	maxTokens         = 512

	// bounds the tool-call exchange with the model
	maxToolRounds = 3
)

// Pipeline answers questions over the session's conversation, exposing
// document retrieval to the model as a callable tool when the session
// has an indexed document. The model decides whether to invoke it.
type Pipeline struct {
	lm       provider.LMProvider
	embedder provider.Embedder
	store    vector.Store
	reranker provider.Reranker
}

func NewPipeline(lm provider.LMProvider, embedder provider.Embedder, store vector.Store) *Pipeline {
	return &Pipeline{
		lm:       lm,
		embedder: embedder,
		store:    store,
	}
}

// WithReranker enables post-retrieval reranking of retrieved chunks.
func (p *Pipeline) WithReranker(r provider.Reranker) *Pipeline {
	p.reranker = r
	return p
}

// Answer runs one chat turn and appends it to the session history. It
// never surfaces errors to the caller; failed turns answer with the
// apology text.
func (p *Pipeline) Answer(ctx context.Context, sess *session.Session, question string) string {
	reply, err := p.answer(ctx, sess, question)
	if err != nil {
		slog.Error("chat turn failed", "session", sess.ID, "err", err)
		reply = Apology
	}

	sess.Append(api.RoleUser, question)
	sess.Append(api.RoleAssistant, reply)
	return reply
}

func (p *Pipeline) answer(ctx context.Context, sess *session.Session, question string) (string, error) {
	history := slices.Clone(sess.History)

	var tools []*api.ToolSpec
	if sess.Collection != "" {
		tools = []*api.ToolSpec{retrieverSpec()}
	}

	req := api.ChatRequest{
		Query:        question,
		SystemPrompt: systemPrompt,
		History:      history,
		Tools:        tools,
		MaxTokens:    maxTokens,
	}

	for range maxToolRounds {
		resp, err := p.lm.Chat(ctx, req)
		if err != nil {
			return "", err
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		if req.Query != "" {
			history = append(history, &api.ChatMessage{
				Role:    api.RoleUser,
				Content: req.Query,
			})
		}
		history = append(history, &api.ChatMessage{
			Role:      api.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			result, err := p.retrieve(ctx, sess, call, question)
			if err != nil {
				return "", fmt.Errorf("tool call '%s' failed: %w", call.Name, err)
			}
			history = append(history, &api.ChatMessage{
				Role:       api.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}

		req = api.ChatRequest{
			SystemPrompt: systemPrompt,
			History:      history,
			Tools:        tools,
			MaxTokens:    maxTokens,
		}
	}

	return "", fmt.Errorf("model did not produce an answer within %d tool rounds", maxToolRounds)
}

func (p *Pipeline) retrieve(ctx context.Context, sess *session.Session, call *api.ToolCall, question string) (string, error) {
	if call.Name != retrieverToolName {
		return "", fmt.Errorf("unknown tool '%s'", call.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		slog.Warn("malformed tool call arguments, falling back to user question", "arguments", call.Arguments)
	}
	query := args.Query
	if query == "" {
		query = question
	}

	vec, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query '%s': %w", query, err)
	}

	queryParams := vector.NewQueryParams(
		sess.Collection,
		vec,
		vector.WithPayload(true),
		vector.WithLimit(retrieverLimit),
	)

	points, err := p.store.Query(ctx, queryParams)
	if err != nil {
		return "", fmt.Errorf("failed to get results for query '%s': %w", query, err)
	}

	texts := make([]string, 0, len(points))
	for _, point := range points {
		t, ok := point.Payload["text"]
		if !ok {
			slog.Warn("malformed retrieved point: missing 'text' field in payload", "id", point.ID, "payload", point.Payload)
			continue
		}
		texts = append(texts, strings.TrimSpace(t))
	}

	if p.reranker != nil && len(texts) > 0 {
		texts = p.rerank(ctx, query, texts)
	}

	if len(texts) == 0 {
		return "no relevant passages found in the document", nil
	}

	return strings.Join(texts, "\n---\n"), nil
}

// rerank reorders retrieved passages by relevance. Rerank failure is
// not fatal to the turn; the original ordering is kept.
func (p *Pipeline) rerank(ctx context.Context, query string, texts []string) []string {
	resp, err := p.reranker.Rerank(ctx, api.RerankRequest{
		Query:     query,
		Documents: texts,
		Limit:     retrieverLimit,
	})
	if err != nil {
		slog.Warn("failed to rerank retrieved passages", "err", err)
		return texts
	}

	reranked := make([]string, 0, len(resp.Documents))
	for _, doc := range resp.Documents {
		reranked = append(reranked, doc.Content)
	}
	if len(reranked) == 0 {
		return texts
	}
	return reranked
}

func retrieverSpec() *api.ToolSpec {
	return &api.ToolSpec{
		Name:        retrieverToolName,
		Description: "Useful for retrieving relevant information from the uploaded PDF document.",
		Parameters: &api.Schema{
			Type: api.TypeObject,
			Properties: map[string]*api.Schema{
				"query": {
					Type:        api.TypeString,
					Description: "Search query to run against the document.",
				},
			},
			Required: []string{"query"},
		},
	}
}
