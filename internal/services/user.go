package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/go-playground/validator/v10"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate is a partial profile update. Only keys present in the payload are applied.
type UserUpdate struct {
	Username models.Optional[string] `json:"username"`
	Email    models.Optional[string] `json:"email"`
}

// PasswordChange is the payload for changing a password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserService implements account use cases.
type UserService struct {
	users    UserStore
	hasher   *PasswordHasher
	validate *validator.Validate
}

// NewUserService creates a [UserService]. A nil hasher uses bcrypt's default cost.
func NewUserService(users UserStore, hasher *PasswordHasher) *UserService {
	if hasher == nil {
		hasher = NewPasswordHasher(0)
	}
	return &UserService{users: users, hasher: hasher, validate: validator.New()}
}

// Register validates input, rejects taken emails and usernames, and stores the account with a hashed password
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username, email := strings.TrimSpace(in.Username), strings.TrimSpace(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return nil, shared.Validation("All fields are required")
	}
	if err := checkUsername(username); err != nil {
		return nil, err
	}
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, email, username, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internal(err, "Registration failed")
	}

	created, err := s.users.Create(ctx, models.NewUser(username, email, hash))
	if errors.Is(err, repositories.ErrUnique) {
		return nil, shared.Conflict("Email or username is already registered")
	} else if err != nil {
		return nil, internal(err, "Registration failed")
	}
	return created, nil
}

// Login verifies credentials and returns the account.
// Unknown emails and wrong passwords fail with the same [shared.KindAuthentication] error.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, shared.Validation("Email and password are required")
	}
	if s.validate.Var(email, "email") != nil {
		return nil, shared.Validation("Invalid email format")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.hasher.VerifyMissing(in.Password)
		return nil, shared.Authentication("Invalid credentials")
	} else if err != nil {
		return nil, internal(err, "Login failed")
	}

	if !s.hasher.Verify(user.PasswordHash(), in.Password) {
		return nil, shared.Authentication("Invalid credentials")
	}
	return user, nil
}

// GetProfile returns one account
func (s *UserService) GetProfile(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, shared.NotFound("User not found")
	} else if err != nil {
		return nil, internal(err, "Failed to fetch profile")
	}
	return user, nil
}

// UpdateProfile applies a partial update to username and email
func (s *UserService) UpdateProfile(ctx context.Context, id int64, in UserUpdate) (*models.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username.Set && !present(in.Username) {
		return nil, shared.Validation("Username cannot be empty")
	}
	if in.Email.Set && !present(in.Email) {
		return nil, shared.Validation("Email cannot be empty")
	}

	var username, email string
	if in.Username.Set {
		username = strings.TrimSpace(in.Username.Value)
		if err := checkUsername(username); err != nil {
			return nil, err
		}
	}
	if in.Email.Set {
		email = strings.TrimSpace(in.Email.Value)
		if err := s.checkEmail(email); err != nil {
			return nil, err
		}
	}

	if err := s.checkUnique(ctx, email, username, id); err != nil {
		return nil, err
	}

	if username != "" {
		user.SetUsername(username)
	}
	if email != "" {
		user.SetEmail(email)
	}

	updated, err := s.users.Update(ctx, user)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, shared.NotFound("User not found")
	case errors.Is(err, repositories.ErrUnique):
		return nil, shared.Conflict("Email or username is already registered")
	case err != nil:
		return nil, internal(err, "Failed to update profile")
	}
	return updated, nil
}

// ChangePassword replaces the password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, id int64, in PasswordChange) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return shared.Validation("Current password and new password are required")
	}

	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(user.PasswordHash(), in.CurrentPassword) {
		return shared.Authentication("Current password is incorrect")
	}
	if err := checkPassword(in.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return internal(err, "Failed to change password")
	}

	err = s.users.UpdatePassword(ctx, id, hash)
	if errors.Is(err, repositories.ErrNotFound) {
		return shared.NotFound("User not found")
	} else if err != nil {
		return internal(err, "Failed to change password")
	}
	return nil
}

// Delete removes an account
func (s *UserService) Delete(ctx context.Context, id int64) error {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return internal(err, "Failed to delete account")
	}
	if !removed {
		return shared.NotFound("User not found")
	}
	return nil
}

func (s *UserService) checkEmail(email string) error {
	if utf8.RuneCountInString(email) > models.MaxFieldLength {
		return shared.Validation("Email must be %d characters or less", models.MaxFieldLength)
	}
	if s.validate.Var(email, "email") != nil {
		return shared.Validation("Invalid email format")
	}
	return nil
}

// checkUnique rejects an email or username held by an account other than excludeID. Empty values are skipped.
func (s *UserService) checkUnique(ctx context.Context, email, username string, excludeID int64) error {
	if email != "" {
		taken, err := s.users.EmailExists(ctx, email, excludeID)
		if err != nil {
			return internal(err, "Failed to check email")
		}
		if taken {
			return shared.Conflict("Email address is already registered")
		}
	}

	if username != "" {
		taken, err := s.users.UsernameExists(ctx, username, excludeID)
		if err != nil {
			return internal(err, "Failed to check username")
		}
		if taken {
			return shared.Conflict("Username is already taken")
		}
	}
	return nil
}

func checkUsername(username string) error {
	switch n := utf8.RuneCountInString(username); {
	case n < models.MinUsernameLength:
		return shared.Validation("Username must be at least %d characters", models.MinUsernameLength)
	case n > models.MaxUsernameLength:
		return shared.Validation("Username cannot exceed %d characters", models.MaxUsernameLength)
	}
	return nil
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < models.MinPasswordLength {
		return shared.Validation("Password must be at least %d characters", models.MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return shared.Validation("Password cannot exceed %d bytes", MaxPasswordBytes)
	}
	return nil
}
