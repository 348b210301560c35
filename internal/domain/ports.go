package domain

import "context"

// ChatTurn is the minimal projection of a message the model consumes.
type ChatTurn struct {
	Role    Role
	Content string
}

// TextStream is a lazy, finite, non-restartable sequence of text fragments.
// Concatenating every fragment in emission order yields the model's full
// response. After Next returns false, Err reports whether the stream ended
// normally or failed partway; fragments already seen are best-effort output.
type TextStream interface {
	Next() bool
	Text() string
	Err() error
	Close() error
}

// LLMClient defines how the core interacts with a streaming text-generation
// provider. It is a pure relay: no retries, no buffering.
type LLMClient interface {
	StreamChat(ctx context.Context, history []ChatTurn) (TextStream, error)
}

// ConversationStore defines conversation metadata persistence.
type ConversationStore interface {
	List(ctx context.Context) ([]*Conversation, error)
	Create(ctx context.Context, conv *Conversation) error
	Get(ctx context.Context, id ConversationID) (*Conversation, error)
	// Delete removes the metadata record and every message under it.
	Delete(ctx context.Context, id ConversationID) error
	// UpdateTitle and UpdateTimestamp silently no-op if the record vanished
	// between check and write.
	UpdateTitle(ctx context.Context, id ConversationID, title string) error
	UpdateTimestamp(ctx context.Context, id ConversationID, ts Timestamp) error
}

// MessageStore defines append-only message persistence.
type MessageStore interface {
	ListByConversation(ctx context.Context, id ConversationID) ([]*Message, error)
	Append(ctx context.Context, msg *Message) error
	History(ctx context.Context, id ConversationID) ([]ChatTurn, error)
}
