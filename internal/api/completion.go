package api

// GenerationRequest describes a one-shot prompt completion.
type GenerationRequest struct {
	// Required
	Prompt string

	// Optional params
	SystemPrompt string
	ModelName    string
	Temperature  float32
	MaxTokens    int
}

// ChatRequest describes a conversational completion. Query is appended
// as the final user turn; it may be empty when the latest turns are
// already part of History (e.g. during a tool exchange).
type ChatRequest struct {
	Query string

	// Optional params
	ModelName    string
	SystemPrompt string
	History      []*ChatMessage
	Tools        []*ToolSpec
	MaxTokens    int
}

type ChatResponse struct {
	Content   string
	ToolCalls []*ToolCall
}

// ToolSpec declares a capability the model may invoke during a chat
// completion. Parameters describes the call arguments as a schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  *Schema
}

// ToolCall is a model-requested invocation of a declared tool.
// Arguments holds the raw JSON argument object.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
