package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/verba/internal/domain"
	"github.com/PabloGalante/verba/internal/observability"
)

// maxTitleRunes bounds the auto-derived conversation title; longer user
// content is truncated and marked with an ellipsis.
const maxTitleRunes = 50

// SendAndStream runs one full exchange: verify the conversation, persist
// the user turn, retitle if the title is still the default, replay the full
// history to the model, relay each fragment through emit, then persist the
// assembled assistant turn and refresh the conversation's recency marker.
//
// Any failure while streaming — the model stream breaking or emit failing
// because the consumer went away — aborts before the assistant turn is
// persisted: the user's words are kept, the partial reply is dropped, and
// the recency marker stays untouched.
func (s *Service) SendAndStream(
	ctx context.Context,
	id domain.ConversationID,
	content string,
	emit func(domain.StreamEvent) error,
) error {
	ctx = observability.WithConversationID(ctx, string(id))
	log := observability.LoggerFromContext(ctx)

	conv, err := s.conversations.Get(ctx, id)
	if err != nil {
		return err
	}

	log.Info("sending message", "content_length", len(content))

	userMsg := &domain.Message{
		ConversationID: id,
		Role:           domain.RoleUser,
		Content:        content,
		CreatedAt:      s.now(),
	}
	if err := s.messages.Append(ctx, userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return err
	}

	// Retitle at most once, from the first user message.
	if conv.Title == domain.DefaultTitle {
		if err := s.conversations.UpdateTitle(ctx, id, deriveTitle(content)); err != nil {
			log.Error("failed to update title", "error", err)
			return err
		}
	}

	// Every turn resends the entire conversation; cost grows linearly with
	// its length.
	history, err := s.messages.History(ctx, id)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return err
	}

	stream, err := s.llm.StreamChat(ctx, history)
	if err != nil {
		log.Error("failed to open model stream", "error", err)
		return err
	}
	defer stream.Close()

	var full strings.Builder
	for stream.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fragment := stream.Text()
		full.WriteString(fragment)
		if err := emit(domain.DeltaEvent(fragment)); err != nil {
			log.Error("consumer stopped accepting events", "error", err)
			return fmt.Errorf("emit delta: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		log.Error("model stream failed", "error", err, "partial_length", full.Len())
		return fmt.Errorf("model stream: %w", err)
	}

	// An empty model response is still persisted as an empty assistant
	// message.
	assistantMsg := &domain.Message{
		ConversationID: id,
		Role:           domain.RoleAssistant,
		Content:        full.String(),
		CreatedAt:      s.now(),
	}
	if err := s.messages.Append(ctx, assistantMsg); err != nil {
		log.Error("failed to append assistant message", "error", err)
		return err
	}

	if err := s.conversations.UpdateTimestamp(ctx, id, s.now()); err != nil {
		log.Error("failed to refresh conversation timestamp", "error", err)
		return err
	}

	log.Info("send completed", "response_length", full.Len())
	return emit(domain.StopEvent())
}

func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= maxTitleRunes {
		return content
	}
	return string(runes[:maxTitleRunes]) + "..."
}
