package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/shared"
)

// Manager holds the in-memory session state and performs auth operations.
//
// Login and Signup never return errors to callers: failures are classified
// per the error taxonomy, reported through the logger, and collapse to a
// boolean. Exactly one session is active at a time.
type Manager struct {
	mu      sync.RWMutex
	store   *Store
	seo     *services.SEOService
	logger  *log.Logger
	user    *models.User
	loading bool
}

// NewManager creates a session manager over the given store and backend client.
//
// The manager starts in the loading state; callers must run Init before
// relying on IsAuthenticated.
func NewManager(store *Store, seo *services.SEOService, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{store: store, seo: seo, logger: logger, loading: true}
}

// Init restores the session from persisted state without any network call.
//
// A present token has its expiry and subject decoded locally; expired or
// undecodable tokens force a logout so stale credentials never linger in
// the store. Init always resolves the loading state.
func (m *Manager) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	token := m.store.Token()
	if token == "" {
		return
	}

	claims, err := DecodeClaims(token)
	if err != nil {
		m.logger.Warn("discarding undecodable session token", "err", err)
		m.clearLocked()
		return
	}
	if claims.Expired(time.Now()) {
		m.logger.Info("session expired, logging out")
		m.clearLocked()
		return
	}

	m.user = &models.User{ID: claims.Subject, Username: m.store.Username()}
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(logger *log.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// Loading reports whether Init has resolved yet.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// User returns the current in-memory user, or nil when anonymous.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	return m.User() != nil
}

// Login authenticates with the backend and persists the session on success.
//
// Failures are classified (invalid format, invalid credentials, no
// response, or the backend's own detail message) and logged; the caller
// only sees the boolean.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	if email == "" || password == "" {
		m.logger.Error("email and password are required")
		return false
	}

	result, err := m.seo.Login(ctx, email, password)
	if err != nil {
		m.logger.Error(loginFailureMessage(err))
		return false
	}

	if err := m.store.Save(result.AccessToken, result.Username); err != nil {
		m.logger.Error("login succeeded but credentials could not be persisted", "err", err)
		return false
	}

	m.mu.Lock()
	m.user = &models.User{ID: result.UserID, Username: result.Username}
	m.mu.Unlock()

	m.logger.Info("login successful", "username", result.Username)
	return true
}

// Signup creates an account. It validates inputs before any network call
// and never authenticates the caller; login is a separate step.
func (m *Manager) Signup(ctx context.Context, username, email, password string) bool {
	if username == "" || email == "" || password == "" {
		m.logger.Error("all fields are required")
		return false
	}
	if len(password) < 6 {
		m.logger.Error("password must be at least 6 characters")
		return false
	}

	if err := m.seo.Signup(ctx, username, email, password); err != nil {
		m.logger.Error(signupFailureMessage(err))
		return false
	}

	m.logger.Info("signup successful, please login")
	return true
}

// Logout clears the persisted credentials and in-memory user synchronously.
// It always succeeds.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()
	m.logger.Info("you have been logged out")
}

// UpdateProfile sends a partial update and merges the server's response
// into the in-memory user. Requires an active session.
func (m *Manager) UpdateProfile(ctx context.Context, partial map[string]any) (*models.User, error) {
	if m.store.Token() == "" {
		return nil, shared.ErrNotAuthenticated
	}

	updated, err := m.seo.UpdateProfile(ctx, partial)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.user == nil {
		m.user = &models.User{}
	}
	if updated.ID != "" {
		m.user.ID = updated.ID
	}
	if updated.Username != "" {
		m.user.Username = updated.Username
	}
	if updated.Email != "" {
		m.user.Email = updated.Email
	}
	merged := *m.user
	m.mu.Unlock()

	return &merged, nil
}

// Verify asks the backend whether the current token is still accepted.
// A rejected token clears the session.
func (m *Manager) Verify(ctx context.Context) error {
	if m.store.Token() == "" {
		return shared.ErrNotAuthenticated
	}

	err := m.seo.Verify(ctx)
	if err == nil {
		return nil
	}

	var statusErr *services.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized {
		m.mu.Lock()
		m.clearLocked()
		m.mu.Unlock()
		return fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	}
	return err
}

func (m *Manager) clearLocked() {
	m.store.Clear()
	m.user = nil
}

// loginFailureMessage maps a login error onto the fixed user-facing taxonomy.
func loginFailureMessage(err error) string {
	var statusErr *services.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusUnprocessableEntity:
			return "invalid login format, check your email and password"
		case http.StatusUnauthorized:
			return "invalid credentials, check your email and password"
		default:
			if statusErr.Detail != "" {
				return statusErr.Detail
			}
			return "login failed, please try again"
		}
	}
	return "no response from server, check your connection"
}

func signupFailureMessage(err error) string {
	var statusErr *services.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Detail != "" {
			return statusErr.Detail
		}
		return "signup failed, please try again"
	}
	return "no response from server, check your connection"
}
