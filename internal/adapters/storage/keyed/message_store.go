package keyed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/verba/internal/domain"
)

// MessageStore implements domain.MessageStore over a Backend. The sort key
// combines the creation timestamp and the message id, so natural key order
// equals chronological order with id as the tie-breaker.
type MessageStore struct {
	backend Backend
	now     func() time.Time
}

func NewMessageStore(backend Backend) *MessageStore {
	return &MessageStore{
		backend: backend,
		now:     time.Now,
	}
}

// ListByConversation returns the conversation's messages in creation order,
// ascending, via the sort-key-prefix query.
func (s *MessageStore) ListByConversation(ctx context.Context, id domain.ConversationID) ([]*domain.Message, error) {
	items, err := s.backend.Query(ctx, QuerySpec{
		PK:       conversationPK(id),
		SKPrefix: msgKeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]*domain.Message, 0, len(items))
	for _, item := range items {
		msg, err := messageFromItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

// Append persists one message. Once it returns, the message is visible to
// subsequent ListByConversation and History calls from any caller.
func (s *MessageStore) Append(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = domain.MessageID(uuid.NewString())
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}

	if err := s.backend.Put(ctx, messageToItem(msg)); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// History is ListByConversation projected to role+content, the exact shape
// the model gateway consumes.
func (s *MessageStore) History(ctx context.Context, id domain.ConversationID) ([]domain.ChatTurn, error) {
	msgs, err := s.ListByConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	turns := make([]domain.ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, domain.ChatTurn{Role: m.Role, Content: m.Content})
	}
	return turns, nil
}

func messageToItem(msg *domain.Message) Item {
	return Item{
		AttrPK:           conversationPK(msg.ConversationID),
		AttrSK:           messageSK(msg.CreatedAt, msg.ID),
		"id":             string(msg.ID),
		"conversationId": string(msg.ConversationID),
		"role":           string(msg.Role),
		"content":        msg.Content,
		"createdAt":      formatTime(msg.CreatedAt),
	}
}

func messageFromItem(item Item) (*domain.Message, error) {
	createdAt, err := parseTime(item["createdAt"])
	if err != nil {
		return nil, fmt.Errorf("decode message createdAt: %w", err)
	}
	return &domain.Message{
		ID:             domain.MessageID(item["id"]),
		ConversationID: domain.ConversationID(item["conversationId"]),
		Role:           domain.Role(item["role"]),
		Content:        item["content"],
		CreatedAt:      createdAt,
	}, nil
}
