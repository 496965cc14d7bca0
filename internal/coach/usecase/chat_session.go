package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"careerhub-client/internal/coach/domain/model"
	"careerhub-client/internal/coach/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/shared/logger"

	"golang.org/x/sync/semaphore"
)

// Fixed assistant texts.
const (
	ApologyMessage    = "I apologize, but I encountered an error. Please try again."
	ConnectionMessage = "I'm having trouble connecting. Please check your internet and try again."
	PlanFailedMessage = "Error generating learning plan. Please try again."
	PlanPrompt        = "Can you create a personalized learning plan for me?"
)

const (
	maxMessageRunes   = 1000
	chatComponentName = "coach"
)

// PlanSuggestions follow every learning plan.
var PlanSuggestions = []string{
	"Tell me more about these resources",
	"How long will this take?",
	"What should I start with first?",
}

// ChatSession is an in-memory conversation with the coach.
//
// Sends are serialized: a send waits until the previous one has appended its
// assistant turn, so a user turn is always followed directly by its answer.
type ChatSession struct {
	repo repository.CoachRepository
	log  logger.Logger
	now  func() time.Time

	// sendLock admits one send at a time, waiters in arrival order.
	sendLock *semaphore.Weighted

	mu         sync.RWMutex
	transcript []model.Turn
	typing     bool
}

func NewChatSession(repo repository.CoachRepository, log logger.Logger) *ChatSession {
	if log == nil {
		log = logger.NewNop()
	}
	return &ChatSession{
		repo:     repo,
		log:      log.WithComponent(chatComponentName),
		now:      time.Now,
		sendLock: semaphore.NewWeighted(1),
	}
}

// Subscribe forgets the conversation when the session ends.
func (s *ChatSession) Subscribe(bus eventbus.EventBusInterface) {
	bus.Subscribe(eventbus.EventTypeSessionCleared, func(ctx context.Context, _ eventbus.Event) error {
		s.Clear()
		return nil
	})
}

func (s *ChatSession) acquire(ctx context.Context) error {
	return s.sendLock.Acquire(ctx, 1)
}

func (s *ChatSession) release() { s.sendLock.Release(1) }

// Send appends text as a user turn and then the coach's answer. When the
// request fails an apology is appended instead and the error is returned
// along with it. The typing flag is set only while the request is in flight.
func (s *ChatSession) Send(ctx context.Context, text string) (model.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Turn{}, apperrors.NewValidationError("Message is required").WithComponent(chatComponentName)
	}
	if len([]rune(text)) > maxMessageRunes {
		return model.Turn{}, apperrors.NewValidationError("Message must be at most 1000 characters").WithComponent(chatComponentName)
	}

	if err := s.acquire(ctx); err != nil {
		return model.Turn{}, err
	}
	defer s.release()

	s.begin(text)
	reply, err := s.repo.Chat(ctx, text)
	if err != nil {
		s.log.WithContext(ctx).Warnf("coach chat failed: %v", err)
		msg := ApologyMessage
		if apperrors.IsNetwork(err) {
			msg = ConnectionMessage
		}
		return s.finish(msg, nil), err
	}
	return s.finish(reply.Response, reply.Suggestions), nil
}

// RequestPlan asks for a learning plan on the user's behalf and appends it
// as an assistant turn followed by PlanSuggestions.
func (s *ChatSession) RequestPlan(ctx context.Context) (model.Turn, error) {
	if err := s.acquire(ctx); err != nil {
		return model.Turn{}, err
	}
	defer s.release()

	s.begin(PlanPrompt)
	plan, err := s.repo.Plan(ctx)
	if err != nil {
		s.log.WithContext(ctx).Warnf("learning plan failed: %v", err)
		return s.finish(PlanFailedMessage, nil), err
	}
	suggestions := make([]string, len(PlanSuggestions))
	copy(suggestions, PlanSuggestions)
	return s.finish(plan.Format(), suggestions), nil
}

func (s *ChatSession) begin(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, model.Turn{Role: model.RoleUser, Text: text, At: s.now()})
	s.typing = true
}

func (s *ChatSession) finish(text string, suggestions []string) model.Turn {
	if suggestions == nil {
		suggestions = []string{}
	}
	turn := model.Turn{Role: model.RoleAssistant, Text: text, Suggestions: suggestions, At: s.now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, turn)
	s.typing = false
	return turn
}

// Transcript returns a copy of all turns in order.
func (s *ChatSession) Transcript() []model.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// IsTyping reports whether an assistant answer is pending.
func (s *ChatSession) IsTyping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing
}

// Suggestions returns the chips of the latest assistant turn.
func (s *ChatSession) Suggestions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].Role == model.RoleAssistant {
			return s.transcript[i].Suggestions
		}
	}
	return nil
}

// Clear drops the transcript.
func (s *ChatSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
}
