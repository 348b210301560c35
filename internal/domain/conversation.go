package domain

// Conversation is the metadata record for one chat thread.
// UpdatedAt tracks the most recent completed assistant turn, not the
// user-message submission time.
type Conversation struct {
	ID        ConversationID
	Title     string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// Message is one turn in a conversation. Messages are immutable once
// written: the assistant message is persisted whole after its stream ends,
// never incrementally.
type Message struct {
	ID             MessageID
	ConversationID ConversationID
	Role           Role
	Content        string
	CreatedAt      Timestamp
}
