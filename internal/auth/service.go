// Package auth handles local account management: signup, signin,
// signout and the durable session that survives restarts.
package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/johnmaronga/bookflow/internal/database/users"
	"github.com/johnmaronga/bookflow/internal/entities"
	"github.com/johnmaronga/bookflow/internal/session"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrEmailRequired     = errors.New("email is required")
	ErrPasswordRequired  = errors.New("password is required")
	ErrEmailInvalid      = errors.New("invalid email format")
	ErrAccountExists     = errors.New("an account with this email already exists")
	ErrNoAccount         = errors.New("no account found with this email")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Service handles authentication against the local user table.
type Service struct {
	users    *users.Repository
	sessions *session.Manager
}

// NewService creates a new authentication service.
func NewService(users *users.Repository, sessions *session.Manager) *Service {
	return &Service{users: users, sessions: sessions}
}

// SignUp registers a new account, persists the session and returns the
// new user's id. Fails with ErrAccountExists when the email is taken;
// the existing user's record is left untouched.
func (s *Service) SignUp(email, password, name string) (uint, error) {
	if email == "" {
		return 0, ErrEmailRequired
	}
	if password == "" {
		return 0, ErrPasswordRequired
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return 0, ErrEmailInvalid
	}

	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return 0, ErrAccountExists
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(email, passwordHash, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sessions.Save(user.ID, user.Email, user.Name); err != nil {
		return 0, fmt.Errorf("failed to save session: %w", err)
	}

	return user.ID, nil
}

// SignIn verifies credentials, stamps LastLoginAt, persists the
// session and returns the user's id. LastLoginAt is not touched on
// failed attempts.
func (s *Service) SignIn(email, password string) (uint, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return 0, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return 0, ErrNoAccount
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return 0, ErrIncorrectPassword
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		return 0, fmt.Errorf("failed to update last login: %w", err)
	}

	if err := s.sessions.Save(user.ID, user.Email, user.Name); err != nil {
		return 0, fmt.Errorf("failed to save session: %w", err)
	}

	return user.ID, nil
}

// SignOut clears the session. Signing out while logged out is a no-op.
func (s *Service) SignOut() error {
	return s.sessions.Clear()
}

// CurrentUser resolves the persisted session to the full user record.
// Returns nil when logged out or when the referenced user no longer
// exists; absence is not an error.
func (s *Service) CurrentUser() (*entities.User, error) {
	sess, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	return s.users.GetUserByID(sess.UserID)
}

// IsLoggedIn reports whether a session record exists.
func (s *Service) IsLoggedIn() bool {
	return s.sessions.IsLoggedIn()
}
