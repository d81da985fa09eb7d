package session

import "errors"

// ErrBadAdminPassword is returned when the submitted admin password
// does not match the shared secret.
var ErrBadAdminPassword = errors.New("session: incorrect admin password")

// AdminSignIn compares password against the configured shared secret
// and, on match, persists the admin flag. It never talks to the
// identity provider: the admin area is a separate, locally granted
// capability with no expiry.
func (m *Manager) AdminSignIn(password string) error {
	release, err := m.acquireBusy()
	if err != nil {
		return err
	}
	defer release()

	if password != m.adminPassword {
		m.notifier.Error("Incorrect admin password")
		return ErrBadAdminPassword
	}
	if err := m.state.Set(adminKey, "true"); err != nil {
		m.notifier.Error("Failed to sign in as admin")
		return err
	}
	m.notifier.Success("Admin signed in successfully!")
	return nil
}

// IsAdmin reports whether the admin flag is set.
func (m *Manager) IsAdmin() bool {
	v, ok := m.state.Get(adminKey)
	return ok && v == "true"
}

// AdminSignOut clears the admin flag.
func (m *Manager) AdminSignOut() error {
	if err := m.state.Delete(adminKey); err != nil {
		return err
	}
	m.notifier.Success("Admin signed out successfully")
	return nil
}
