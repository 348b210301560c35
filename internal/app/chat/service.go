package chat

import (
	"context"
	"time"

	"github.com/PabloGalante/verba/internal/domain"
	"github.com/PabloGalante/verba/internal/observability"
)

// Service coordinates conversation persistence and reply streaming. One
// instance serves many conversations concurrently; each call runs as a
// single linear flow with no internal parallelism.
type Service struct {
	llm           domain.LLMClient
	conversations domain.ConversationStore
	messages      domain.MessageStore
	now           func() time.Time
}

func NewService(
	llm domain.LLMClient,
	conversations domain.ConversationStore,
	messages domain.MessageStore,
) *Service {
	return &Service{
		llm:           llm,
		conversations: conversations,
		messages:      messages,
		now:           time.Now,
	}
}

// ListConversations returns every conversation, most recently updated first.
func (s *Service) ListConversations(ctx context.Context) ([]*domain.Conversation, error) {
	return s.conversations.List(ctx)
}

// CreateConversation starts an empty conversation. An empty title gets the
// default sentinel, which the first message later replaces.
func (s *Service) CreateConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	log := observability.LoggerFromContext(ctx)

	conv := &domain.Conversation{Title: title}
	if err := s.conversations.Create(ctx, conv); err != nil {
		log.Error("failed to create conversation", "error", err)
		return nil, err
	}

	log.Info("conversation created", "conversation_id", conv.ID)
	return conv, nil
}

// DeleteConversation removes the conversation and all its messages.
func (s *Service) DeleteConversation(ctx context.Context, id domain.ConversationID) error {
	log := observability.LoggerFromContext(ctx).With("conversation_id", id)

	if err := s.conversations.Delete(ctx, id); err != nil {
		log.Error("failed to delete conversation", "error", err)
		return err
	}

	log.Info("conversation deleted")
	return nil
}

// ListMessages returns the conversation's messages in creation order.
func (s *Service) ListMessages(ctx context.Context, id domain.ConversationID) ([]*domain.Message, error) {
	return s.messages.ListByConversation(ctx, id)
}
