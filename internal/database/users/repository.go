// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db.DB)
//	user, err := repo.GetUserByEmail(email)
package users

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/johnmaronga/bookflow/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user row and returns it with the assigned id.
func (r *Repository) CreateUser(email, passwordHash, name string) (*entities.User, error) {
	user := &entities.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email, or nil when absent.
func (r *Repository) GetUserByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID, or nil when absent.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin stamps the user's last successful sign-in time.
func (r *Repository) UpdateLastLogin(id uint) error {
	now := time.Now()
	return r.db.Model(&entities.User{}).Where("id = ?", id).
		Update("last_login_at", now).Error
}

// GetUserCount returns the number of registered users.
func (r *Repository) GetUserCount() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// DeleteUser removes a user by ID.
func (r *Repository) DeleteUser(id uint) error {
	return r.db.Delete(&entities.User{}, id).Error
}
