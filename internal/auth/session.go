package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Page is the view a session is currently on.
type Page string

const (
	PageLogin     Page = "login"
	PageSignup    Page = "signup"
	PageDashboard Page = "dashboard"
)

// Session is the per-visitor context handed to every view. It is created at
// login and destroyed at logout or when it expires.
type Session struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Authenticated bool      `json:"authenticated"`
	Page          Page      `json:"page"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// SessionManager issues and tracks sessions.
type SessionManager struct {
	dir   *Directory
	ttl   time.Duration
	clock clockwork.Clock

	mu       sync.Mutex
	sessions map[string]Session
}

// NewSessionManager creates a manager backed by dir. A non-positive ttl
// defaults to eight hours.
func NewSessionManager(dir *Directory, ttl time.Duration, clock clockwork.Clock) *SessionManager {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SessionManager{
		dir:      dir,
		ttl:      ttl,
		clock:    clock,
		sessions: make(map[string]Session),
	}
}

// Directory returns the allow-list used for logins.
func (m *SessionManager) Directory() *Directory {
	return m.dir
}

// Login creates an authenticated session for an allowed e-mail.
func (m *SessionManager) Login(email string) (Session, error) {
	email = normalize(email)
	if email == "" {
		return Session{}, ErrEmptyEmail
	}
	if !m.dir.Contains(email) {
		return Session{}, eris.Wrapf(ErrUnknownEmail, "auth: login %s", email)
	}

	now := m.clock.Now()
	s := Session{
		ID:            uuid.New().String(),
		Email:         email,
		Authenticated: true,
		Page:          PageDashboard,
		CreatedAt:     now,
		ExpiresAt:     now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	zap.L().Info("auth: login", zap.String("email", email))
	return s, nil
}

// Get returns the live session with the given id.
func (m *SessionManager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !m.clock.Now().Before(s.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, ErrSessionExpired
	}
	return s, nil
}

// Logout destroys the session.
func (m *SessionManager) Logout(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	zap.L().Info("auth: logout", zap.String("email", s.Email))
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	n := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Active returns the number of tracked sessions, expired or not.
func (m *SessionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
