// Package session persists the current authentication state: a single
// durable record of the signed-in user, kept in the settings KV table.
// An absent user id means logged out. The record outlives restarts and
// is read at startup to restore authentication state.
package session

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/johnmaronga/bookflow/internal/database"
	"github.com/johnmaronga/bookflow/internal/entities"
)

// Session is the persisted "current user" record.
type Session struct {
	UserID    uint   `json:"user_id"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name,omitempty"`
}

// Manager reads and writes the session record.
type Manager struct {
	db *database.Database
}

func NewManager(db *database.Database) *Manager {
	return &Manager{db: db}
}

// Save records the signed-in user. Called on signup and signin.
func (m *Manager) Save(userID uint, email, name string) error {
	if err := m.db.SetSetting(entities.SettingKeySessionUserID, strconv.FormatUint(uint64(userID), 10)); err != nil {
		return err
	}
	if err := m.db.SetSetting(entities.SettingKeySessionUserEmail, email); err != nil {
		return err
	}
	return m.db.SetSetting(entities.SettingKeySessionUserName, name)
}

// Clear removes the session record. Called on signout.
func (m *Manager) Clear() error {
	for _, key := range []string{
		entities.SettingKeySessionUserID,
		entities.SettingKeySessionUserEmail,
		entities.SettingKeySessionUserName,
	} {
		if err := m.db.DeleteSetting(key); err != nil {
			return err
		}
	}
	return nil
}

// Current returns the session record, or nil when logged out.
func (m *Manager) Current() (*Session, error) {
	setting, err := m.db.GetSetting(entities.SettingKeySessionUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Absent record means logged out, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseUint(setting.Value, 10, 64)
	if err != nil {
		return nil, nil
	}

	sess := &Session{UserID: uint(userID)}
	if s, err := m.db.GetSetting(entities.SettingKeySessionUserEmail); err == nil {
		sess.UserEmail = s.Value
	}
	if s, err := m.db.GetSetting(entities.SettingKeySessionUserName); err == nil {
		sess.UserName = s.Value
	}
	return sess, nil
}

// IsLoggedIn reports whether a session record exists.
func (m *Manager) IsLoggedIn() bool {
	sess, _ := m.Current()
	return sess != nil
}
