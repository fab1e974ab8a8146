// Package llm adapts the generative text/vision service behind
// ports.TextGenerator.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"CrossPoster/internal/config"
	"CrossPoster/internal/domain"
	"CrossPoster/internal/ports"
)

// OpenAIGenerator implements ports.TextGenerator on the chat completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

var _ ports.TextGenerator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a generator from configuration.
func NewOpenAIGenerator(cfg config.OpenAIConfig) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Generate runs one completion. Image URLs, when present, are attached
// to the user message as vision parts.
func (g *OpenAIGenerator) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("%w: text generator is not configured", domain.ErrConfiguration)
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.ImageURLs) == 0 {
		user.Content = req.User
	} else {
		parts := make([]openai.ChatMessagePart, 0, len(req.ImageURLs)+1)
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: req.User,
		})
		for _, url := range req.ImageURLs {
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: url},
			})
		}
		user.MultiContent = parts
	}
	messages = append(messages, user)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", domain.ErrExternalService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", domain.ErrModelOutput)
	}

	return resp.Choices[0].Message.Content, nil
}
