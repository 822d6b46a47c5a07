package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
	"github.com/simhastha/margdarshak/internal/pkg/metrics"
)

// Greeting opens every chat session.
const Greeting = "Jai Shree Mahakal! How can I help you?"

// apology replaces the placeholder when a turn fails for any reason.
const apology = "Sorry, I'm having trouble connecting. Please try again later."

// ErrBusy rejects a new turn while one is still streaming.
var ErrBusy = errors.New("a chat turn is already in progress")

// ChatEvents receives per-turn notifications from the session. All
// callbacks fire on the streaming goroutine.
type ChatEvents struct {
	// OnUpdate fires after every transcript mutation, including the
	// placeholder append and each fragment applied to it.
	OnUpdate func(messages []domain.ChatMessage)
	// OnLocate fires when the assistant names a facility to focus.
	OnLocate func(facilityID string)
	// OnRoute fires when the assistant resolves a route.
	OnRoute func(route *domain.Route)
	// OnDone fires once per turn, after the final transcript update.
	OnDone func()
}

// ChatSession holds one user's conversation with the assistant. Turns
// are single-flight: a second Send while a turn streams is rejected
// rather than queued.
type ChatSession struct {
	completion ports.CompletionService
	userPos    func() *domain.Position
	events     ChatEvents

	mu        sync.Mutex
	messages  []domain.ChatMessage
	streaming bool
	closed    bool
}

// NewChatSession opens a session seeded with the greeting. userPos is
// sampled at the start of each turn; it may return nil when the user
// has no position fix.
func NewChatSession(completion ports.CompletionService, userPos func() *domain.Position, events ChatEvents) *ChatSession {
	if userPos == nil {
		userPos = func() *domain.Position { return nil }
	}
	return &ChatSession{
		completion: completion,
		userPos:    userPos,
		events:     events,
		messages: []domain.ChatMessage{
			{ID: uuid.NewString(), Role: domain.RoleModel, Content: Greeting},
		},
	}
}

// Messages returns a copy of the transcript.
func (s *ChatSession) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send starts a turn: the user message and an empty model placeholder
// are appended immediately, then fragments stream into the placeholder.
// Returns ErrBusy while a previous turn is still streaming.
func (s *ChatSession) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("chat session closed")
	}
	if s.streaming {
		s.mu.Unlock()
		return ErrBusy
	}
	s.streaming = true

	// History for the completion call excludes the new user message and
	// the placeholder.
	history := make([]domain.ChatMessage, len(s.messages))
	copy(history, s.messages)

	s.messages = append(s.messages,
		domain.ChatMessage{ID: uuid.NewString(), Role: domain.RoleUser, Content: text},
		domain.ChatMessage{ID: uuid.NewString(), Role: domain.RoleModel, Content: ""},
	)
	snapshot := make([]domain.ChatMessage, len(s.messages))
	copy(snapshot, s.messages)
	s.mu.Unlock()

	s.notifyUpdate(snapshot)
	metrics.ChatTurns.Inc()

	pos := s.userPos()
	fragments, err := s.completion.StreamChat(ctx, history, text, pos)
	if err != nil {
		slog.Warn("chat completion failed to start", "error", err)
		s.failTurn()
		return nil
	}

	go s.consume(fragments)
	return nil
}

// consume drains one turn's fragment stream into the placeholder.
func (s *ChatSession) consume(fragments <-chan domain.ChatFragment) {
	failed := false
	for frag := range fragments {
		if frag.Err != nil {
			slog.Warn("chat stream ended with error", "error", frag.Err)
			failed = true
			break
		}
		metrics.ChatFragments.Inc()
		if frag.Text != "" {
			s.appendToPlaceholder(frag.Text)
		}
		if frag.FacilityID != "" && s.events.OnLocate != nil {
			s.events.OnLocate(frag.FacilityID)
		}
		if frag.Route != nil && s.events.OnRoute != nil {
			s.events.OnRoute(frag.Route)
		}
	}

	if failed {
		s.failTurn()
		return
	}
	s.finishTurn()
}

// appendToPlaceholder mutates the in-flight model message in place, so
// subscribers see one message growing rather than a message per chunk.
func (s *ChatSession) appendToPlaceholder(text string) {
	s.mu.Lock()
	if s.closed || len(s.messages) == 0 {
		s.mu.Unlock()
		return
	}
	last := &s.messages[len(s.messages)-1]
	if last.Role != domain.RoleModel {
		s.mu.Unlock()
		return
	}
	last.Content += text
	snapshot := make([]domain.ChatMessage, len(s.messages))
	copy(snapshot, s.messages)
	s.mu.Unlock()

	s.notifyUpdate(snapshot)
}

// failTurn replaces the placeholder with the fixed apology and ends the
// turn. The transcript keeps the user message; the turn is not retried.
func (s *ChatSession) failTurn() {
	s.mu.Lock()
	if !s.closed && len(s.messages) > 0 {
		last := &s.messages[len(s.messages)-1]
		if last.Role == domain.RoleModel {
			last.Content = apology
		}
	}
	snapshot := make([]domain.ChatMessage, len(s.messages))
	copy(snapshot, s.messages)
	s.streaming = false
	closed := s.closed
	s.mu.Unlock()

	if !closed {
		s.notifyUpdate(snapshot)
		if s.events.OnDone != nil {
			s.events.OnDone()
		}
	}
}

func (s *ChatSession) finishTurn() {
	s.mu.Lock()
	snapshot := make([]domain.ChatMessage, len(s.messages))
	copy(snapshot, s.messages)
	s.streaming = false
	closed := s.closed
	s.mu.Unlock()

	if !closed {
		s.notifyUpdate(snapshot)
		if s.events.OnDone != nil {
			s.events.OnDone()
		}
	}
}

func (s *ChatSession) notifyUpdate(snapshot []domain.ChatMessage) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	if s.events.OnUpdate != nil {
		s.events.OnUpdate(snapshot)
	}
}

// Close ends the session. Fragments still in flight are discarded and
// no further callbacks fire.
func (s *ChatSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
