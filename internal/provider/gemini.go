package provider

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/alan-mat/sway/internal/api"
)

type GeminiProvider struct {
	client     *genai.Client
	vectorDims *int32
}

func NewGeminiProvider(apiKey string) (*GeminiProvider, error) {
	c, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	p := &GeminiProvider{
		client:     c,
		vectorDims: new(int32),
	}
	*(p.vectorDims) = 1536
	return p, nil
}

func (p GeminiProvider) Generate(ctx context.Context, req api.GenerationRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &req.Temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, "")
	}

	modelName := "gemini-2.0-flash"
	if req.ModelName != "" {
		modelName = req.ModelName
	}

	resp, err := p.client.Models.GenerateContent(ctx, modelName, genai.Text(req.Prompt), config)
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}

func (p GeminiProvider) Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	contents := parseRequestHistory(req.History)
	if req.Query != "" {
		contents = append(contents, genai.NewContentFromText(req.Query, genai.RoleUser))
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, "")
	}
	if len(req.Tools) > 0 {
		config.Tools = parseToolSpecs(req.Tools)
	}

	modelName := "gemini-2.0-flash"
	if req.ModelName != "" {
		modelName = req.ModelName
	}

	resp, err := p.client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return nil, err
	}

	chatResp := &api.ChatResponse{
		Content: resp.Text(),
	}
	for _, fc := range resp.FunctionCalls() {
		args, err := json.Marshal(fc.Args)
		if err != nil {
			args = []byte("{}")
		}
		chatResp.ToolCalls = append(chatResp.ToolCalls, &api.ToolCall{
			ID:        fc.ID,
			Name:      fc.Name,
			Arguments: string(args),
		})
	}

	return chatResp, nil
}

func (p GeminiProvider) EmbedQuery(ctx context.Context, q string) ([]float32, error) {
	contents := genai.Text(q)

	config := &genai.EmbedContentConfig{
		TaskType:             "RETRIEVAL_QUERY",
		OutputDimensionality: p.vectorDims,
	}

	res, err := p.client.Models.EmbedContent(ctx, "gemini-embedding-exp-03-07", contents, config)
	if err != nil {
		return nil, err
	}

	vals := res.Embeddings[0].Values
	return vals, nil
}

func (p GeminiProvider) EmbedDocuments(ctx context.Context, docs []*api.EmbedDocumentRequest) ([]*api.DocumentEmbedding, error) {
	embeddings := make([]*api.DocumentEmbedding, 0, len(docs))

	for _, doc := range docs {
		contents := make([]*genai.Content, 0, len(doc.Chunks))
		for _, chunk := range doc.Chunks {
			content := genai.NewContentFromText(chunk, genai.RoleUser)
			contents = append(contents, content)
		}

		config := &genai.EmbedContentConfig{
			TaskType:             "RETRIEVAL_DOCUMENT",
			Title:                doc.Title,
			OutputDimensionality: p.vectorDims,
		}

		res, err := p.client.Models.EmbedContent(ctx, "gemini-embedding-exp-03-07", contents, config)
		if err != nil {
			return nil, err
		}

		values := make([][]float32, 0, len(res.Embeddings))
		for _, rEmbedding := range res.Embeddings {
			values = append(values, rEmbedding.Values)
		}

		embeddings = append(embeddings, &api.DocumentEmbedding{
			Title:  doc.Title,
			Values: values,
			Chunks: doc.Chunks,
		})
	}

	return embeddings, nil
}

func (p GeminiProvider) GetDimensions() uint {
	return uint(*p.vectorDims)
}

func parseRequestHistory(h []*api.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(h))
	for _, m := range h {
		switch {
		case m.Role == api.RoleTool:
			part := genai.NewPartFromFunctionResponse(m.ToolName, map[string]any{
				"output": m.Content,
			})
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))

		case m.Role == api.RoleAssistant && len(m.ToolCalls) > 0:
			parts := make([]*genai.Part, 0, len(m.ToolCalls))
			for _, call := range m.ToolCalls {
				args := make(map[string]any)
				if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
					args = map[string]any{}
				}
				parts = append(parts, genai.NewPartFromFunctionCall(call.Name, args))
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))

		case m.Role == api.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))

		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents
}

func parseToolSpecs(specs []*api.ToolSpec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  parseSchema(spec.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func parseSchema(s *api.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	schema := &genai.Schema{
		Description: s.Description,
		Title:       s.Title,
		Required:    s.Required,
		Type:        genai.Type(strings.ToUpper(string(s.Type))),
	}

	if s.Items != nil {
		schema.Items = parseSchema(s.Items)
	}

	if s.Properties != nil {
		properties := make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			properties[k] = parseSchema(v)
		}
		schema.Properties = properties
	}

	return schema
}
