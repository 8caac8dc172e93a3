package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session holds one conversation. It starts with the greeting and lives until
// it is cleared.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	messages []Message
}

func NewSession() *Session {
	now := time.Now()

	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		messages:  []Message{{Role: RoleAssistant, Content: Greeting, CreatedAt: now}},
	}
}

// Messages returns a copy of the history in order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)

	return out
}

func (s *Session) append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msgs...)
}

// Registry tracks sessions for callers that can only hold an identifier,
// such as HTTP clients.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

func (r *Registry) Create() *Session {
	s := NewSession()

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return s, nil
}

// Clear tears the session down. Its history is gone afterwards.
func (r *Registry) Clear(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	delete(r.sessions, id)

	return nil
}
