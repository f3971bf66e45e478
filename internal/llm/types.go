package llm

import (
	"context"
	"fmt"
)

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}

// GenerateRequest is a single text generation call.
type GenerateRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float32
}

// Generator produces model text from a prompt and history.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ModelUnavailableError reports that every retry attempt against the
// upstream model failed.
type ModelUnavailableError struct {
	Attempts int
	Last     error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model unavailable after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Last
}
