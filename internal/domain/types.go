package domain

import "time"

type ConversationID string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultTitle is the sentinel placeholder assigned on creation. While a
// conversation still carries it, the first user message auto-derives a title.
const DefaultTitle = "New Conversation"

type Timestamp = time.Time
