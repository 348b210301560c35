package llm

import (
	"context"
	"strings"

	"github.com/PabloGalante/verba/internal/domain"
)

// MockLLM streams scripted fragments without touching any provider.
// Useful for local dev and tests.
type MockLLM struct {
	fragments []string
}

// NewMockLLM returns a mock that replays the given fragments. With no
// arguments it echoes a canned reply, split into word-sized fragments the
// way a real stream would arrive.
func NewMockLLM(fragments ...string) *MockLLM {
	if len(fragments) == 0 {
		canned := "I hear you. Tell me a bit more about that."
		for i, word := range strings.Split(canned, " ") {
			if i > 0 {
				word = " " + word
			}
			fragments = append(fragments, word)
		}
	}
	return &MockLLM{fragments: fragments}
}

func (m *MockLLM) StreamChat(ctx context.Context, history []domain.ChatTurn) (domain.TextStream, error) {
	return &scriptedStream{fragments: m.fragments}, nil
}

type scriptedStream struct {
	fragments []string
	idx       int
}

func (s *scriptedStream) Next() bool {
	if s.idx >= len(s.fragments) {
		return false
	}
	s.idx++
	return true
}

func (s *scriptedStream) Text() string {
	return s.fragments[s.idx-1]
}

func (s *scriptedStream) Err() error { return nil }

func (s *scriptedStream) Close() error { return nil }
