package keyed_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PabloGalante/verba/internal/adapters/storage/keyed"
	memstore "github.com/PabloGalante/verba/internal/adapters/storage/memory"
	"github.com/PabloGalante/verba/internal/domain"
)

func TestConversationCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := keyed.NewConversationStore(memstore.NewStore())

	conv := &domain.Conversation{}
	if err := store.Create(ctx, conv); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("expected an allocated id")
	}
	if conv.Title != domain.DefaultTitle {
		t.Errorf("expected sentinel title, got %q", conv.Title)
	}
	if conv.CreatedAt.IsZero() || !conv.UpdatedAt.Equal(conv.CreatedAt) {
		t.Errorf("expected both timestamps set to creation time, got %v / %v", conv.CreatedAt, conv.UpdatedAt)
	}

	got, err := store.Get(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != conv.ID || got.Title != conv.Title {
		t.Errorf("round-trip mismatch: %+v vs %+v", got, conv)
	}
}

func TestConversationGetNotFound(t *testing.T) {
	ctx := context.Background()
	store := keyed.NewConversationStore(memstore.NewStore())

	_, err := store.Get(ctx, "nope")
	if !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestListOrdersByRecency(t *testing.T) {
	ctx := context.Background()
	store := keyed.NewConversationStore(memstore.NewStore())

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var ids []domain.ConversationID
	for i := 0; i < 3; i++ {
		conv := &domain.Conversation{
			Title:     fmt.Sprintf("conv-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.Create(ctx, conv); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, conv.ID)
	}

	// Touch the oldest conversation; it must move to the front.
	if err := store.UpdateTimestamp(ctx, ids[0], base.Add(time.Hour)); err != nil {
		t.Fatalf("UpdateTimestamp failed: %v", err)
	}

	convs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(convs) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(convs))
	}

	wantOrder := []domain.ConversationID{ids[0], ids[2], ids[1]}
	for i, want := range wantOrder {
		if convs[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, convs[i].ID)
		}
	}
}

func TestListEmpty(t *testing.T) {
	ctx := context.Background()
	store := keyed.NewConversationStore(memstore.NewStore())

	convs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List on empty store failed: %v", err)
	}
	if len(convs) != 0 {
		t.Fatalf("expected no conversations, got %d", len(convs))
	}
}

func TestDeleteCascadesToMessages(t *testing.T) {
	ctx := context.Background()
	backend := memstore.NewStore()
	convStore := keyed.NewConversationStore(backend)
	msgStore := keyed.NewMessageStore(backend)

	conv := &domain.Conversation{Title: "doomed"}
	if err := convStore.Create(ctx, conv); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// More messages than one delete batch can hold, to exercise chunking.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	const n = 30
	for i := 0; i < n; i++ {
		msg := &domain.Message{
			ConversationID: conv.ID,
			Role:           domain.RoleUser,
			Content:        fmt.Sprintf("msg-%d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := msgStore.Append(ctx, msg); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	if err := convStore.Delete(ctx, conv.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := convStore.Get(ctx, conv.ID); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound after delete, got %v", err)
	}
	msgs, err := msgStore.ListByConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListByConversation failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected zero remaining messages, got %d", len(msgs))
	}
}

func TestDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	store := keyed.NewConversationStore(memstore.NewStore())

	if err := store.Delete(ctx, "nope"); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestUpdateOnVanishedRecordIsBenign(t *testing.T) {
	ctx := context.Background()
	store := keyed.NewConversationStore(memstore.NewStore())

	if err := store.UpdateTitle(ctx, "gone", "whatever"); err != nil {
		t.Errorf("UpdateTitle on missing record must no-op, got %v", err)
	}
	if err := store.UpdateTimestamp(ctx, "gone", time.Now()); err != nil {
		t.Errorf("UpdateTimestamp on missing record must no-op, got %v", err)
	}
}

func TestMessagesListedInCreationOrder(t *testing.T) {
	ctx := context.Background()
	backend := memstore.NewStore()
	msgStore := keyed.NewMessageStore(backend)

	convID := domain.ConversationID("c1")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Insert physically out of order; the sort key must restore
	// chronological order.
	for _, i := range []int{2, 0, 3, 1} {
		msg := &domain.Message{
			ConversationID: convID,
			Role:           domain.RoleUser,
			Content:        fmt.Sprintf("msg-%d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		if err := msgStore.Append(ctx, msg); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	msgs, err := msgStore.ListByConversation(ctx, convID)
	if err != nil {
		t.Fatalf("ListByConversation failed: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	for i, msg := range msgs {
		if want := fmt.Sprintf("msg-%d", i); msg.Content != want {
			t.Errorf("position %d: expected %s, got %s", i, want, msg.Content)
		}
		if i > 0 && !msgs[i-1].CreatedAt.Before(msg.CreatedAt) {
			t.Errorf("timestamps not strictly increasing at position %d", i)
		}
	}
}

func TestHistoryProjectsRoleAndContent(t *testing.T) {
	ctx := context.Background()
	backend := memstore.NewStore()
	msgStore := keyed.NewMessageStore(backend)

	convID := domain.ConversationID("c1")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	turns := []domain.ChatTurn{
		{Role: domain.RoleUser, Content: "question"},
		{Role: domain.RoleAssistant, Content: "answer"},
	}
	for i, turn := range turns {
		msg := &domain.Message{
			ConversationID: convID,
			Role:           turn.Role,
			Content:        turn.Content,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		if err := msgStore.Append(ctx, msg); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	history, err := msgStore.History(ctx, convID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != len(turns) {
		t.Fatalf("expected %d turns, got %d", len(turns), len(history))
	}
	for i, turn := range turns {
		if history[i] != turn {
			t.Errorf("turn %d: expected %+v, got %+v", i, turn, history[i])
		}
	}
}
