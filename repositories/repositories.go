package repositories

import (
	"context"
	"errors"

	"wp-dispatch/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique field (user email or external id) is already taken.
	ErrConflict = errors.New("record already exists")
)

// BlogRepository stores blogs keyed by numeric id.
// Create assigns ID and timestamps on the passed value.
type BlogRepository interface {
	List(ctx context.Context) ([]models.Blog, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Blog, error)
	GetByID(ctx context.Context, id int64) (*models.Blog, error)
	Create(ctx context.Context, b *models.Blog) error
	Update(ctx context.Context, id int64, patch models.BlogPatch) (*models.Blog, error)
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Blogs BlogRepository
	Users UserRepository
	// Ping checks the backend is reachable. It may be nil.
	Ping func(ctx context.Context) error
	// Close releases the backend's connections. It may be nil.
	Close func(ctx context.Context) error
}
