package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Session is a point-in-time copy of the credentials held by a Manager.
// Either both tokens are set or the session is anonymous.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Anonymous reports whether the session carries no access token.
func (s Session) Anonymous() bool {
	return s.AccessToken == ""
}

// Manager owns the session credentials and writes them through to a Repo on
// every assignment.
type Manager struct {
	repo   Repo
	logger zerolog.Logger

	lock         sync.RWMutex
	accessToken  string
	refreshToken string
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the logger used to report storage failures
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Load creates a Manager and reads back any credentials previously persisted in repo.
func Load(repo Repo, opts ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("session repo is required")
	}
	m := &Manager{repo: repo, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}

	access, err := get(repo, AccessTokenKey)
	if err != nil {
		return nil, err
	}
	refresh, err := get(repo, RefreshTokenKey)
	if err != nil {
		return nil, err
	}
	m.accessToken = access
	m.refreshToken = refresh
	return m, nil
}

func get(repo Repo, key string) (string, error) {
	v, err := repo.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

// AccessToken returns the current access token, empty when anonymous
func (m *Manager) AccessToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.accessToken
}

// RefreshToken returns the current refresh token
func (m *Manager) RefreshToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.refreshToken
}

// IsAuthenticated reports whether an access token is present.
func (m *Manager) IsAuthenticated() bool {
	return m.AccessToken() != ""
}

// Snapshot returns a copy of both credentials taken under one lock.
func (m *Manager) Snapshot() Session {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return Session{AccessToken: m.accessToken, RefreshToken: m.refreshToken}
}

// SetAccessToken stores and persists a new access token.
func (m *Manager) SetAccessToken(token string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.accessToken = token
	if err := m.repo.Set(AccessTokenKey, token); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	return nil
}

// SetRefreshToken stores and persists a new refresh token.
func (m *Manager) SetRefreshToken(token string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.refreshToken = token
	if err := m.repo.Set(RefreshTokenKey, token); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return nil
}

// SetTokens stores both credentials, as returned by a login. If either
// cannot be persisted the session is cleared, so it never holds one token
// without the other.
func (m *Manager) SetTokens(access, refresh string) error {
	err := m.SetAccessToken(access)
	if err == nil {
		err = m.SetRefreshToken(refresh)
	}
	if err != nil {
		if clearErr := m.Clear(); clearErr != nil {
			return errors.Join(err, clearErr)
		}
		return err
	}
	return nil
}

// Clear drops both credentials and removes them from storage. The in-memory
// values are cleared even when storage fails.
func (m *Manager) Clear() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.accessToken = ""
	m.refreshToken = ""

	var errs []error
	for _, key := range []string{AccessTokenKey, RefreshTokenKey} {
		if err := m.repo.Remove(key); err != nil && !errors.Is(err, ErrNotFound) {
			m.logger.Error().Err(err).Str("key", key).Msg("Failed to remove credential")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OAuth2Token exposes the credentials as a bearer oauth2 token, or nil when
// the session is anonymous.
func (m *Manager) OAuth2Token() *oauth2.Token {
	s := m.Snapshot()
	if s.Anonymous() {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
	}
}
