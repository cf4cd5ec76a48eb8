package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songbook/internal/models"
)

var _ models.Repository[*models.User] = (*UserRepository)(nil)

const userColumns = "id, username, email, password, created_at, updated_at"

// UserRepository implements [models.Repository] for [models.User] persistence.
//
// The password column stores whatever hash the caller set; hashing happens before the repository is reached.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new [UserRepository] backed by store
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts a new user and returns it re-read from the database.
// Returns [ErrUnique] when the username or email is taken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO users (username, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	id, err := r.store.Insert(ctx, query, user.Username(), user.Email(), user.PasswordHash(), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	created, err := r.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrMissingAfterWrite, id)
	}
	return created, err
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by exact email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByUsername retrieves a user by exact username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

// EmailExists reports whether another user (ID other than excludeID) holds email. Pass 0 to check all users.
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.existsBy(ctx, "email", email, excludeID)
}

// UsernameExists reports whether another user (ID other than excludeID) holds username. Pass 0 to check all users.
func (r *UserRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.existsBy(ctx, "username", username, excludeID)
}

// Update writes username and email, refreshes updated_at and returns the stored row.
// The password hash is only changed through [UserRepository.UpdatePassword].
func (r *UserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`

	rows, err := r.store.Exec(ctx, query, user.Username(), user.Email(), time.Now().UTC(), user.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, user.ID())
	}

	return r.Get(ctx, user.ID())
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	query := `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`

	rows, err := r.store.Exec(ctx, query, hash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes a user and reports whether a row was removed
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	rows, err := r.store.Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return rows > 0, nil
}

// List retrieves all users ordered by username
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.store.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// getBy looks a user up by one of the fixed lookup columns.
func (r *UserRepository) getBy(ctx context.Context, column string, value any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`

	user, err := scanUser(r.store.QueryRow(ctx, query, value))
	if err != nil {
		return nil, notFound(err, "user", value)
	}
	return user, nil
}

func (r *UserRepository) existsBy(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE ` + column + ` = ? AND id <> ?)`

	var exists bool
	if err := r.store.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return exists, nil
}

func scanUser(row scanner) (*models.User, error) {
	var (
		id        int64
		username  string
		email     string
		password  string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &username, &email, &password, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	user := models.NewUser(username, email, password)
	user.SetID(id)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	return user, nil
}
