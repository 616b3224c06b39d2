// Package ai wraps the hosted model behind the three flows the app needs:
// photo moderation, report review and icebreaker generation. The model is
// treated as an opaque, possibly-failing classifier; moderation paths fail
// closed, never open.
package ai

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sashabaranov/go-openai"
)

// Completer is the slice of the OpenAI client we use; tests substitute a stub.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Service struct {
	client Completer
	model  string
}

func New() (*Service, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
		log.Println("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}
	return &Service{client: openai.NewClient(apiKey), model: model}, nil
}

// NewWithClient wires an explicit completer, mainly for tests.
func NewWithClient(client Completer, model string) *Service {
	return &Service{client: client, model: model}
}

// completeJSON runs one chat completion in JSON mode and returns the raw
// content of the first choice.
func (s *Service) completeJSON(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
