// Package session holds the logged-in state of the gateway. The manager is an
// explicit value injected into controllers at construction; the store wrapper
// is its only backing.
package session

import "github.com/pontualapp/pontual/store"

// Manager reads and writes the session entries of the store.
type Manager struct {
	store *store.Store
}

// NewManager creates a session manager over the given store.
func NewManager(s *store.Store) *Manager {
	return &Manager{store: s}
}

// IsAuthenticated reports whether a session exists.
func (m *Manager) IsAuthenticated() bool {
	return m.store.IsLoggedIn()
}

// Login persists the session entry by entry.
func (m *Manager) Login(token, email string) {
	m.store.SetAuthToken(token)
	m.store.SetUserEmail(email)
	m.store.SetLoginStatus(true)
}

// Logout clears the session.
func (m *Manager) Logout() {
	m.store.Logout()
}

// Token returns the current bearer token, empty when logged out.
func (m *Manager) Token() string {
	return m.store.AuthToken()
}

// Email returns the current user email, empty when logged out.
func (m *Manager) Email() string {
	return m.store.UserEmail()
}
