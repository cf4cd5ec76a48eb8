// package models defines the data model for the music catalog service
package models

import (
	"context"
	"time"
)

// Model defines the base interface for all persistent models in the catalog.
// Implementations include Artist, Song and User.
type Model interface {
	ID() int64            // ID returns the store-assigned identifier, or 0 before insertion
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) (T, error)     // Create inserts a model and returns it re-read from the store
	Get(ctx context.Context, id int64) (T, error)       // Get retrieves a model by its ID
	Update(ctx context.Context, model T) (T, error)     // Update persists a model's fields and returns the stored row
	Delete(ctx context.Context, id int64) (bool, error) // Delete removes a model and reports whether a row was removed
	List(ctx context.Context) ([]T, error)              // List retrieves all models in display order
}

// MaxFieldLength bounds names, titles, albums and emails.
const MaxFieldLength = 255

// Ptr returns a pointer to s, or nil when s is empty.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the value of s, or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
