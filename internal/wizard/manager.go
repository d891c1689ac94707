package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"backend/internal/models"
)

var ErrSessionNotFound = errors.New("onboarding session not found")

// SessionStore persists the durable slice of a session. The Mongo
// implementation lives in internal/database; tests plug in a map.
type SessionStore interface {
	Save(ctx context.Context, session models.OnboardingSession) error
	Find(ctx context.Context, id string) (models.OnboardingSession, error)
	Delete(ctx context.Context, id string) error
}

// Manager owns the live wizard sessions. It is deliberately an injected
// instance, not a package global, so parallel tests (and a future second
// deployment mode) cannot trample each other.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	api      CatalogAPI
	store    SessionStore
	debounce time.Duration
	release  func(StagedFile)
}

func NewManager(api CatalogAPI, store SessionStore, debounce time.Duration, release func(StagedFile)) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		api:      api,
		store:    store,
		debounce: debounce,
		release:  release,
	}
}

// Start creates a fresh session with an empty draft and persists its durable
// shell.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	session := m.build(uuid.NewString(), StepRegister, time.Now())

	if err := m.store.Save(ctx, models.OnboardingSession{
		ID:        session.ID,
		Step:      int(StepRegister),
		CreatedAt: session.createdAt,
		UpdatedAt: session.createdAt,
	}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, nil
}

// Get returns a live session. If the process restarted since the session
// began, it is rebuilt from the durable keys: email and category id come
// back, everything else must be re-entered or re-fetched.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return session, nil
	}

	doc, err := m.store.Find(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session = m.build(doc.ID, Step(doc.Step), doc.CreatedAt)
	session.draft.seed(doc.Email, doc.CategoryID)

	m.mu.Lock()
	// Another request may have resumed it first; keep the winner.
	if existing, ok := m.sessions[id]; ok {
		session = existing
	} else {
		m.sessions[id] = session
	}
	m.mu.Unlock()
	return session, nil
}

// End abandons a session and forgets it.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		// Still clear the durable shell of a session we no longer hold.
		return m.store.Delete(ctx, id)
	}
	return session.Abandon(ctx)
}

func (m *Manager) build(id string, step Step, createdAt time.Time) *Session {
	return &Session{
		ID:        id,
		step:      step,
		createdAt: createdAt,
		api:       m.api,
		store:     m.store,
		draft:     NewDraft(),
		Cascade:   NewCascade(m.api),
		Tags:      NewTagPicker(m.api, m.debounce),
		Media:     NewMedia(m.api, m.release),
	}
}
