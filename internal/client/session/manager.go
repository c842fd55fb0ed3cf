// Package session owns the client's authenticated state: who is signed in
// and the bearer token backing it. All writes go through SignIn, Restore,
// Refresh, SignOut and Unauthorized, each of which replaces the state under
// one lock.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/diet-tracker/internal/domain"
)

// Reauthentication notice text shown after a forced sign-out.
const (
	NoticeHeading = "Unauthorized Access"
	NoticeMessage = "Please validate your credentials again by logging again."
)

// Session describes the signed-in user.
type Session struct {
	Identity       domain.Identity
	FirstName      string
	LastName       string
	IsAdmin        bool
	DailyThreshold int
}

// Notice asks the user to sign in again.
type Notice struct {
	Heading string
	Message string
	Status  int
}

// Manager holds the current session and its token slot.
type Manager struct {
	mu          sync.Mutex
	current     *Session
	tokens      TokenStore
	logger      *zap.Logger
	subscribers []func(Notice)
}

func NewManager(tokens TokenStore, logger *zap.Logger) *Manager {
	if tokens == nil {
		tokens = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{tokens: tokens, logger: logger}
}

// Token returns the stored bearer token, or "" if there is none.
func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.tokens.Load(ctx)
}

// Current returns a copy of the signed-in session.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// SignIn replaces the session. A non-empty token is written to the slot;
// an empty token keeps the stored one.
func (m *Manager) SignIn(ctx context.Context, s Session, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token != "" {
		if err := m.tokens.Save(ctx, token); err != nil {
			return err
		}
	}
	next := s
	m.current = &next
	m.logger.Debug("session established", zap.String("user_id", s.Identity.ID))
	return nil
}

// Restore establishes s for a session rebuilt from token. It does nothing
// and reports false when token is no longer the stored one, which is the
// case once a 401/403 has cleared the slot.
func (m *Manager) Restore(ctx context.Context, s Session, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.tokens.Load(ctx)
	if err != nil {
		return false, err
	}
	if token == "" || stored != token {
		return false, nil
	}
	next := s
	m.current = &next
	m.logger.Debug("session restored", zap.String("user_id", s.Identity.ID))
	return true, nil
}

// Refresh replaces the current session with s if one for the same user is
// still established. A session cleared in the meantime stays cleared.
func (m *Manager) Refresh(s Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.Identity.ID != s.Identity.ID {
		return false
	}
	next := s
	m.current = &next
	return true
}

// SignOut clears the session and the stored token.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearLocked(ctx)
}

// Unauthorized handles a 401/403 from any call: it clears the session and
// token, then notifies subscribers. Concurrent triggers converge on the same
// cleared state; each trigger delivers its own notice.
func (m *Manager) Unauthorized(ctx context.Context, status int) {
	m.mu.Lock()
	hadSession := m.current != nil
	if err := m.clearLocked(ctx); err != nil {
		m.logger.Warn("failed to clear token after unauthorized response", zap.Error(err))
	}
	subs := append([]func(Notice){}, m.subscribers...)
	m.mu.Unlock()

	m.logger.Info("session invalidated", zap.Int("status", status), zap.Bool("had_session", hadSession))
	notice := Notice{Heading: NoticeHeading, Message: NoticeMessage, Status: status}
	for _, fn := range subs {
		fn(notice)
	}
}

// Subscribe registers fn for reauthentication notices.
func (m *Manager) Subscribe(fn func(Notice)) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.mu.Unlock()
}

// clearLocked drops the session and the token. The slot is cleared even
// when ctx is already cancelled.
func (m *Manager) clearLocked(ctx context.Context) error {
	m.current = nil
	return m.tokens.Clear(context.WithoutCancel(ctx))
}
