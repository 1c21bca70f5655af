package repository

import (
	"context"

	"github.com/fretvault/api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// CreateWithWorkspace stores the user, w and the owner membership
	// atomically. w.OwnerID is set to the new user's id.
	CreateWithWorkspace(ctx context.Context, u *entity.User, w *entity.Workspace) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
}
