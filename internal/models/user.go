package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/songbook/internal/shared"
)

var _ Model = (*User)(nil)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

// User is an account. The password field only ever holds a one-way hash and is never serialized.
type User struct {
	id           int64
	username     string
	email        string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates an unsaved [User]. passwordHash must already be hashed.
func NewUser(username, email, passwordHash string) *User {
	return &User{username: username, email: email, passwordHash: passwordHash}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) SetID(id int64)              { u.id = id }
func (u *User) SetUsername(username string) { u.username = username }
func (u *User) SetEmail(email string)       { u.email = email }
func (u *User) SetPasswordHash(hash string) { u.passwordHash = hash }
func (u *User) SetCreatedAt(t time.Time)    { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)    { u.updatedAt = t }

// Validate checks required fields and lengths. Email syntax and uniqueness are checked by the service.
func (u *User) Validate() error {
	if strings.TrimSpace(u.username) == "" || strings.TrimSpace(u.email) == "" || u.passwordHash == "" {
		return shared.Validation("All fields are required")
	}
	if n := utf8.RuneCountInString(u.username); n < MinUsernameLength {
		return shared.Validation("Username must be at least %d characters", MinUsernameLength)
	} else if n > MaxUsernameLength {
		return shared.Validation("Username cannot exceed %d characters", MaxUsernameLength)
	}
	if utf8.RuneCountInString(u.email) > MaxFieldLength {
		return shared.Validation("Email must be %d characters or less", MaxFieldLength)
	}
	return nil
}

type userJSON struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:        u.id,
		Username:  u.username,
		Email:     u.email,
		CreatedAt: u.createdAt,
		UpdatedAt: u.updatedAt,
	})
}
