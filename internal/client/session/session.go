// Package session bridges the identity provider's asynchronous session
// lifecycle into a synchronously readable value plus the derived auth
// operations (sign in/up, password reset, profile updates, sign-out).
// It also owns the locally stored admin flag, a separate and weaker
// trust domain than the provider session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dammytech/dtxstore/internal/client/backend"
	"github.com/dammytech/dtxstore/internal/client/notify"
	"github.com/dammytech/dtxstore/internal/models"
)

const (
	// sessionKey is the local-storage key the provider session is
	// cached under so it survives restarts.
	sessionKey = "dtx-session"
	// adminKey holds the admin flag as a boolean-as-string.
	adminKey = "adminAuthenticated"

	// remembered sessions live for 30 days, others for one hour.
	shortSessionTTL = time.Hour
	longSessionTTL  = 30 * 24 * time.Hour
)

// ErrBusy is returned when an auth operation is started while another
// one is still in flight.
var ErrBusy = errors.New("session: operation already in progress")

// Persister is the slice of local storage the manager needs.
type Persister interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// TokenSink receives the access token of the current session so the
// data client authenticates follow-up requests. An empty token means
// signed out.
type TokenSink interface {
	SetAccessToken(token string)
}

// Navigator performs a client-side redirect.
type Navigator func(route string)

// Config wires a Manager's collaborators.
type Config struct {
	Auth          backend.AuthAPI
	Tokens        TokenSink
	State         Persister
	Notifier      notify.Notifier
	Navigate      Navigator
	AdminPassword string
}

// Manager holds the observed provider session and the admin flag.
type Manager struct {
	auth          backend.AuthAPI
	tokens        TokenSink
	state         Persister
	notifier      notify.Notifier
	navigate      Navigator
	adminPassword string

	mu         sync.Mutex
	current    *models.Session
	busy       bool
	handled401 bool
	subs       map[int]func(*models.Session)
	nextSub    int
}

// NewManager builds a Manager from cfg and restores any cached,
// unexpired session from local storage.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		auth:          cfg.Auth,
		tokens:        cfg.Tokens,
		state:         cfg.State,
		notifier:      cfg.Notifier,
		navigate:      cfg.Navigate,
		adminPassword: cfg.AdminPassword,
		subs:          make(map[int]func(*models.Session)),
	}
	if raw, ok := m.state.Get(sessionKey); ok {
		var s models.Session
		if err := json.Unmarshal([]byte(raw), &s); err == nil && s.AccessToken != "" && !s.Expired() {
			m.current = &s
			if m.tokens != nil {
				m.tokens.SetAccessToken(s.AccessToken)
			}
		} else {
			_ = m.state.Delete(sessionKey)
		}
	}
	return m
}

// Current returns the session as last observed, or nil when signed
// out.
func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.Expired() {
		return nil
	}
	return m.current
}

// SignedIn reports whether an unexpired session is present.
func (m *Manager) SignedIn() bool {
	return m.Current() != nil
}

// Subscribe registers fn to observe session transitions and returns an
// unsubscribe func. fn receives the new session, nil on sign-out.
func (m *Manager) Subscribe(fn func(*models.Session)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// IsBusy reports whether an auth operation is in flight.
func (m *Manager) IsBusy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// acquireBusy sets the loading flag, failing if it is already held.
// The returned func releases it and is safe on every exit path.
func (m *Manager) acquireBusy() (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return nil, ErrBusy
	}
	m.busy = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.busy = false
	}, nil
}

// setSession replaces the tracked session, mirrors it to local
// storage and the token sink, and notifies subscribers.
func (m *Manager) setSession(s *models.Session) {
	m.mu.Lock()
	m.current = s
	if s != nil {
		m.handled401 = false
		if raw, err := json.Marshal(s); err == nil {
			_ = m.state.Set(sessionKey, string(raw))
		}
	} else {
		_ = m.state.Delete(sessionKey)
	}
	fns := make([]func(*models.Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	if m.tokens != nil {
		if s != nil {
			m.tokens.SetAccessToken(s.AccessToken)
		} else {
			m.tokens.SetAccessToken("")
		}
	}
	for _, fn := range fns {
		fn(s)
	}
}

// SignIn exchanges credentials for a session. rememberMe stretches the
// requested token lifetime from one hour to thirty days.
func (m *Manager) SignIn(ctx context.Context, email, password string, rememberMe bool) error {
	release, err := m.acquireBusy()
	if err != nil {
		return err
	}
	defer release()

	ttl := shortSessionTTL
	if rememberMe {
		ttl = longSessionTTL
	}
	sess, err := m.auth.SignInWithPassword(ctx, email, password, ttl)
	if err != nil {
		m.notifier.Error("Failed to sign in")
		return err
	}
	m.setSession(sess)
	m.notifier.Success("Signed in successfully!")
	return nil
}

// SignUp registers a new account. No session is established here: the
// provider confirms the address by email first.
func (m *Manager) SignUp(ctx context.Context, email, password, name string) error {
	release, err := m.acquireBusy()
	if err != nil {
		return err
	}
	defer release()

	if _, err := m.auth.SignUp(ctx, email, password, name); err != nil {
		m.notifier.Error("Failed to create account")
		return err
	}
	m.notifier.Success("Account created successfully! Please check your email to verify your account.")
	return nil
}

// ResetPassword asks the provider to mail a reset link.
func (m *Manager) ResetPassword(ctx context.Context, email, redirectTo string) error {
	release, err := m.acquireBusy()
	if err != nil {
		return err
	}
	defer release()

	if err := m.auth.ResetPasswordForEmail(ctx, email, redirectTo); err != nil {
		m.notifier.Error("Failed to send reset password email")
		return err
	}
	m.notifier.Success("Password reset link sent to your email")
	return nil
}

// UpdateProfile changes the signed-in user's display name.
func (m *Manager) UpdateProfile(ctx context.Context, fullName string) error {
	release, err := m.acquireBusy()
	if err != nil {
		return err
	}
	defer release()

	patch := backend.UserPatch{Data: map[string]any{"full_name": fullName}}
	if err := m.auth.UpdateUser(ctx, patch); err != nil {
		m.notifier.Error("Failed to update profile")
		return err
	}
	m.mu.Lock()
	if m.current != nil {
		updated := *m.current
		updated.User.FullName = fullName
		m.current = &updated
		if raw, err := json.Marshal(m.current); err == nil {
			_ = m.state.Set(sessionKey, string(raw))
		}
	}
	m.mu.Unlock()
	m.notifier.Success("Profile updated successfully")
	return nil
}

// UpdatePassword changes the signed-in user's password.
func (m *Manager) UpdatePassword(ctx context.Context, password string) error {
	release, err := m.acquireBusy()
	if err != nil {
		return err
	}
	defer release()

	if err := m.auth.UpdateUser(ctx, backend.UserPatch{Password: password}); err != nil {
		m.notifier.Error("Failed to update password")
		return err
	}
	m.notifier.Success("Password updated successfully")
	return nil
}

// SignOut revokes the provider session, clears local session state and
// redirects to the login page. The provider call is best effort: local
// state is cleared even if it fails.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.auth.SignOut(ctx)
	m.setSession(nil)
	if m.navigate != nil {
		m.navigate("/login")
	}
	return err
}

// HandleUnauthorized reacts to a 401 observed on the data-service
// transport: the session is cleared and the user redirected to the
// login page, exactly once per signed-in period no matter how many
// rejected responses arrive.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	if m.handled401 || m.current == nil {
		m.mu.Unlock()
		return
	}
	m.handled401 = true
	m.mu.Unlock()

	m.setSession(nil)
	m.notifier.Error("Your session has expired. Please log in again.")
	if m.navigate != nil {
		m.navigate("/login")
	}
}
