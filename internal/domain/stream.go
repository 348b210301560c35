package domain

// StreamEventType discriminates the events emitted while streaming a reply.
type StreamEventType string

const (
	// EventContentBlockDelta carries one incremental text fragment.
	EventContentBlockDelta StreamEventType = "content_block_delta"
	// EventMessageStop terminates a successful stream.
	EventMessageStop StreamEventType = "message_stop"
	// EventError terminates a failed stream. It is delivered in-band because
	// the HTTP status is already committed once streaming has started.
	EventError StreamEventType = "error"
)

// StreamEvent is one element of the orchestrator's output sequence: zero or
// more deltas followed by exactly one terminal event.
type StreamEvent struct {
	Type  StreamEventType `json:"type"`
	Text  string          `json:"text,omitempty"`
	Error string          `json:"error,omitempty"`
}

func DeltaEvent(text string) StreamEvent {
	return StreamEvent{Type: EventContentBlockDelta, Text: text}
}

func StopEvent() StreamEvent {
	return StreamEvent{Type: EventMessageStop}
}

func ErrorEvent(msg string) StreamEvent {
	return StreamEvent{Type: EventError, Error: msg}
}
