package keyed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/verba/internal/domain"
)

// ConversationStore implements domain.ConversationStore over a Backend.
type ConversationStore struct {
	backend Backend
	now     func() time.Time
}

func NewConversationStore(backend Backend) *ConversationStore {
	return &ConversationStore{
		backend: backend,
		now:     time.Now,
	}
}

// List returns every conversation ordered by last update, newest first.
// It reads the recency index rather than scanning and sorting metadata
// records, so cost is bounded by result size.
func (s *ConversationStore) List(ctx context.Context) ([]*domain.Conversation, error) {
	items, err := s.backend.Query(ctx, QuerySpec{
		Index:      IndexRecency,
		IndexPK:    recencyPK,
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]*domain.Conversation, 0, len(items))
	for _, item := range items {
		conv, err := conversationFromItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

func (s *ConversationStore) Create(ctx context.Context, conv *domain.Conversation) error {
	if conv.ID == "" {
		conv.ID = domain.ConversationID(uuid.NewString())
	}
	if conv.Title == "" {
		conv.Title = domain.DefaultTitle
	}
	now := s.now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}

	if err := s.backend.Put(ctx, conversationToItem(conv)); err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (s *ConversationStore) Get(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	item, err := s.backend.Get(ctx, conversationPK(id), metadataSK)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if item == nil {
		return nil, domain.ErrConversationNotFound
	}
	return conversationFromItem(item)
}

// Delete removes the metadata record and every message sharing its
// partition key as one logical batch. Batches are chunked by the backend;
// a failed chunk leaves earlier chunks deleted (no rollback).
func (s *ConversationStore) Delete(ctx context.Context, id domain.ConversationID) error {
	item, err := s.backend.Get(ctx, conversationPK(id), metadataSK)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if item == nil {
		return domain.ErrConversationNotFound
	}

	items, err := s.backend.Query(ctx, QuerySpec{PK: conversationPK(id)})
	if err != nil {
		return fmt.Errorf("delete conversation: query items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	keys := make([]ItemKey, 0, len(items))
	for _, it := range items {
		keys = append(keys, ItemKey{PK: it[AttrPK], SK: it[AttrSK]})
	}
	if err := s.backend.BatchDelete(ctx, keys); err != nil {
		return fmt.Errorf("delete conversation: batch delete: %w", err)
	}
	return nil
}

// UpdateTitle is a read-modify-write; if the record vanished in between it
// no-ops. Last write wins under concurrent updates.
func (s *ConversationStore) UpdateTitle(ctx context.Context, id domain.ConversationID, title string) error {
	item, err := s.backend.Get(ctx, conversationPK(id), metadataSK)
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	if item == nil {
		return nil
	}

	item["title"] = title
	if err := s.backend.Put(ctx, item); err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

// UpdateTimestamp refreshes the recency marker, rewriting the index sort
// key so List keeps returning newest-first. Same no-op-on-vanish semantics
// as UpdateTitle.
func (s *ConversationStore) UpdateTimestamp(ctx context.Context, id domain.ConversationID, ts domain.Timestamp) error {
	item, err := s.backend.Get(ctx, conversationPK(id), metadataSK)
	if err != nil {
		return fmt.Errorf("update timestamp: %w", err)
	}
	if item == nil {
		return nil
	}

	item["updatedAt"] = formatTime(ts)
	item[AttrGSI1SK] = recencySK(ts, id)
	if err := s.backend.Put(ctx, item); err != nil {
		return fmt.Errorf("update timestamp: %w", err)
	}
	return nil
}

func conversationToItem(conv *domain.Conversation) Item {
	return Item{
		AttrPK:      conversationPK(conv.ID),
		AttrSK:      metadataSK,
		AttrGSI1PK:  recencyPK,
		AttrGSI1SK:  recencySK(conv.UpdatedAt, conv.ID),
		"id":        string(conv.ID),
		"title":     conv.Title,
		"createdAt": formatTime(conv.CreatedAt),
		"updatedAt": formatTime(conv.UpdatedAt),
	}
}

func conversationFromItem(item Item) (*domain.Conversation, error) {
	createdAt, err := parseTime(item["createdAt"])
	if err != nil {
		return nil, fmt.Errorf("decode conversation createdAt: %w", err)
	}
	updatedAt, err := parseTime(item["updatedAt"])
	if err != nil {
		return nil, fmt.Errorf("decode conversation updatedAt: %w", err)
	}
	return &domain.Conversation{
		ID:        domain.ConversationID(item["id"]),
		Title:     item["title"],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
