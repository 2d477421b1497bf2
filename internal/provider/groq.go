package provider

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/alan-mat/sway/internal/api"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	groqDefaultModel = "llama3-8b-8192"
)

// GroqProvider serves completions from Groq's OpenAI-compatible endpoint.
type GroqProvider struct {
	client *openai.Client
}

func NewGroqProvider(apiKey string) *GroqProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = groqBaseURL
	return &GroqProvider{
		client: openai.NewClientWithConfig(config),
	}
}

func (p GroqProvider) Generate(ctx context.Context, req api.GenerationRequest) (string, error) {
	openaiReq := openai.ChatCompletionRequest{
		Model:       groqDefaultModel,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    generationMessages(req),
	}

	if req.ModelName != "" {
		openaiReq.Model = req.ModelName
	}

	resp, err := p.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return "", err
	}

	return resp.Choices[0].Message.Content, nil
}

func (p GroqProvider) Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	openaiReq := openai.ChatCompletionRequest{
		Model:     groqDefaultModel,
		MaxTokens: req.MaxTokens,
		Messages:  chatMessages(req),
		Tools:     chatTools(req.Tools),
	}

	if req.ModelName != "" {
		openaiReq.Model = req.ModelName
	}

	resp, err := p.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, err
	}

	return parseChatChoice(resp.Choices[0].Message), nil
}
