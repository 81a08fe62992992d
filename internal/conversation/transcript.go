package conversation

import (
	"sync"

	"github.com/ashureev/healthdash/internal/domain"
)

// Transcript is an append-only chat history safe for concurrent appends.
// Display order is append order, so concurrent replies land in completion order.
type Transcript struct {
	mu       sync.RWMutex
	messages []domain.ChatMessage
}

// Append adds m to the end of the transcript.
func (t *Transcript) Append(m domain.ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, m)
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []domain.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}
