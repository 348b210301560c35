package domain

import "errors"

// ErrConversationNotFound signals a lookup of a conversation id with no
// metadata record behind it. Callers fail fast and create no partial state.
var ErrConversationNotFound = errors.New("conversation not found")
