// Package session owns the bearer token and the cached current-user
// projection. Presence of a token is the only notion of "authenticated";
// a stale or revoked token is indistinguishable from a valid one until the
// server rejects it.
package session

import (
	"sync"

	"github.com/sirupsen/logrus"

	"storefront_client/internal/domain"
	"storefront_client/internal/storage"
)

type Manager struct {
	store *storage.FileStore
	log   *logrus.Logger

	mu        sync.RWMutex
	token     string
	user      *domain.User
	listeners []func()
}

func NewManager(store *storage.FileStore, logger *logrus.Logger) *Manager {
	m := &Manager{
		store: store,
		log:   logger,
	}

	// Restore persisted state. Storage failures degrade to "unauthenticated".
	var tok string
	if m.store.GetJSON(storage.KeyToken, &tok) {
		m.token = tok
	}
	var user domain.User
	if m.store.GetJSON(storage.KeyUser, &user) {
		m.user = &user
	}
	return m
}

// Token returns the current bearer token, or "" when unauthenticated.
// It never fails: storage errors were already degraded to absence at load.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// HasValidToken reports token presence. No expiry validation is performed.
func (m *Manager) HasValidToken() bool {
	return m.Token() != ""
}

// SetToken persists the token, overwriting any previous value.
func (m *Manager) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	if err := m.store.SetJSON(storage.KeyToken, token); err != nil {
		m.log.Warnf("Session: failed to persist token: %v", err)
	}
}

// User returns the cached profile projection, falling back to the persisted
// copy. Returns nil when nothing is cached.
func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// SetUser caches the profile projection in memory and on disk.
func (m *Manager) SetUser(user *domain.User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	if err := m.store.SetJSON(storage.KeyUser, user); err != nil {
		m.log.Warnf("Session: failed to persist user profile: %v", err)
	}
}

// Clear removes the token and the cached profile. Notifies no one; use
// ForceLogout for the broadcast variant.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Delete(storage.KeyToken, storage.KeyUser); err != nil {
		m.log.Warnf("Session: failed to clear persisted session: %v", err)
	}
}

// OnLogout registers a listener invoked whenever the session is torn down
// through ForceLogout (explicit logout or the pipeline's 401 policy).
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// ForceLogout clears the session and broadcasts the logout event.
// Wired as the pipeline's unauthorized handler.
func (m *Manager) ForceLogout() {
	m.Clear()

	m.mu.RLock()
	listeners := make([]func(), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	m.log.Info("Session: logged out")
	for _, fn := range listeners {
		fn()
	}
}
