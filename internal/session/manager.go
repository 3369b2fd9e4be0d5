// Package session owns the authenticated session: the token pair, the
// user profile, and the refresh/logout lifecycle. There is exactly one
// Manager per application and only it writes the credential store.
package session

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/store"
)

// ErrNoRefreshToken means no refresh token is persisted; the session
// cannot be recovered without a new login.
var ErrNoRefreshToken = errors.New("no refresh token available")

// ErrSessionExpired means a refresh was attempted and failed. The
// session has been cleared and the user must log in again.
var ErrSessionExpired = errors.New("session expired")

// Notices shown on the landing view after session transitions
const (
	NoticeLoggedIn  = "You have successfully logged in!"
	NoticeLoggedOut = "Logout successful!"
)

// Manager maintains the single authoritative session. All state behind
// the mutex; reads hand out copies.
type Manager struct {
	api   *api.Client
	store *store.Store

	mu      sync.RWMutex
	access  string
	refresh string
	user    *models.User
	loading bool
	notice  string

	// collapses concurrent refresh calls into one exchange
	group singleflight.Group
}

// NewManager creates a session manager. The session is in its loading
// state until Restore completes.
func NewManager(client *api.Client, st *store.Store) *Manager {
	return &Manager{api: client, store: st, loading: true}
}

// Restore rebuilds the session from persisted credentials at startup.
// With a stored access token and username it provisionally authenticates,
// then validates by fetching the profile, refreshing once on a 401.
// The loading flag is cleared exactly once, on every path out.
func (m *Manager) Restore(ctx context.Context) {
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	creds, err := m.store.Credentials()
	if err != nil || creds.AccessToken == "" || creds.Username == "" {
		return
	}

	m.mu.Lock()
	m.access = creds.AccessToken
	m.refresh = creds.RefreshToken
	m.user = &models.User{Username: creds.Username}
	m.mu.Unlock()

	// A token already past its exp claim cannot pass the profile fetch;
	// skip straight to the refresh path.
	if tokenExpired(creds.AccessToken) {
		if _, err := m.Refresh(ctx); err == nil {
			// Refresh fetched the full profile itself
			return
		}
		return
	}

	user, err := m.api.Profile(ctx, creds.AccessToken)
	if err == nil {
		m.setUser(user)
		return
	}
	if !api.IsUnauthorized(err) {
		// Keep the username-only profile; the server may just be down
		return
	}

	newToken, err := m.Refresh(ctx)
	if err != nil {
		// Refresh already performed the logout
		return
	}
	if user, err := m.api.Profile(ctx, newToken); err == nil {
		m.setUser(user)
	}
}

// Login installs a fresh token pair after a completed login flow,
// persists it, and fetches the full profile. A profile fetch failure
// falls back to a username-only profile rather than failing the login.
func (m *Manager) Login(ctx context.Context, access, refresh, username string) error {
	if err := m.store.SaveCredentials(access, refresh, username); err != nil {
		return err
	}

	m.mu.Lock()
	m.access = access
	m.refresh = refresh
	m.user = &models.User{Username: username}
	m.notice = NoticeLoggedIn
	m.mu.Unlock()

	if user, err := m.api.Profile(ctx, access); err == nil {
		m.setUser(user)
	}
	return nil
}

// Refresh exchanges the persisted refresh token for a new access token,
// persists it, and re-fetches the profile. Any failure clears the
// session. Concurrent callers share one exchange: the backend rotates
// nothing on refresh, but single-flighting keeps a burst of 401s from
// issuing a pile of identical requests.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	token, err, _ := m.group.Do("refresh", func() (any, error) {
		return m.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *Manager) doRefresh(ctx context.Context) (string, error) {
	refreshToken, err := m.store.Get(store.KeyRefreshToken)
	if err != nil || refreshToken == "" {
		m.Logout()
		return "", ErrNoRefreshToken
	}

	access, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		m.Logout()
		return "", err
	}

	if err := m.store.SetAccessToken(access); err != nil {
		m.Logout()
		return "", err
	}
	m.mu.Lock()
	m.access = access
	m.mu.Unlock()

	user, err := m.api.Profile(ctx, access)
	if err != nil {
		m.Logout()
		return "", err
	}
	m.setUser(user)

	return access, nil
}

// Logout clears all persisted and in-memory session state
func (m *Manager) Logout() {
	m.store.ClearCredentials()

	m.mu.Lock()
	m.access = ""
	m.refresh = ""
	m.user = nil
	m.notice = NoticeLoggedOut
	m.mu.Unlock()
}

// Do runs an authenticated call, retrying exactly once with a refreshed
// token when the backend answers 401. Every other failure is returned
// as-is. A failed refresh surfaces as ErrSessionExpired with the
// session already cleared.
func (m *Manager) Do(ctx context.Context, call func(token string) error) error {
	err := call(m.Token())
	if err == nil || !api.IsUnauthorized(err) {
		return err
	}

	newToken, refreshErr := m.Refresh(ctx)
	if refreshErr != nil {
		return ErrSessionExpired
	}
	return call(newToken)
}

// Token returns the current access token, empty when logged out
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

// User returns a copy of the profile and whether one is set
func (m *Manager) User() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

// Authenticated reports whether a session is established. Meaningless
// while Loading is still true.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access != "" && m.user != nil
}

// Loading reports whether the initial restore is still in progress
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Notice returns the transient success message, if any
func (m *Manager) Notice() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notice
}

// ClearNotice dismisses the transient success message
func (m *Manager) ClearNotice() {
	m.mu.Lock()
	m.notice = ""
	m.mu.Unlock()
}

func (m *Manager) setUser(user models.User) {
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
}
