package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/PabloGalante/verba/internal/domain"
)

// AnthropicClient implements domain.LLMClient against the Anthropic
// Messages API. It is a pure relay: the provider's event union is filtered
// down to text deltas and nothing else crosses this boundary.
type AnthropicClient struct {
	client    anthropic.Client
	modelName string
	maxTokens int64
}

func NewAnthropicClient(apiKey, modelName string, maxTokens int) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required for Anthropic client")
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		modelName: modelName,
		maxTokens: int64(maxTokens),
	}, nil
}

// StreamChat opens a streaming completion over the full ordered history.
// The returned stream ends normally on provider completion or surfaces the
// provider failure through Err; no retries happen here.
func (c *AnthropicClient) StreamChat(ctx context.Context, history []domain.ChatTurn) (domain.TextStream, error) {
	messages := make([]anthropic.MessageParam, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case domain.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		}
	}

	stream := c.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelName),
		MaxTokens: c.maxTokens,
		Messages:  messages,
	})

	return &anthropicStream{stream: stream}, nil
}

// anthropicStream narrows the provider event stream to text fragments.
type anthropicStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
	text   string
}

func (s *anthropicStream) Next() bool {
	for s.stream.Next() {
		event := s.stream.Current()
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if delta.Text == "" {
					continue
				}
				s.text = delta.Text
				return true
			}
		}
	}
	return false
}

func (s *anthropicStream) Text() string {
	return s.text
}

func (s *anthropicStream) Err() error {
	return s.stream.Err()
}

func (s *anthropicStream) Close() error {
	return s.stream.Close()
}
