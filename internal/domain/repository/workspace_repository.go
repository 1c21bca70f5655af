package repository

import (
	"context"

	"github.com/fretvault/api/internal/domain/entity"
)

// WorkspaceRepository stores workspaces and their memberships.
type WorkspaceRepository interface {
	// Create inserts the workspace and the owner's membership atomically.
	Create(ctx context.Context, w *entity.Workspace) error
	GetByID(ctx context.Context, id string) (*entity.Workspace, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]entity.Membership, error)
	GetRole(ctx context.Context, workspaceID, userID string) (entity.Role, error)
	AddMember(ctx context.Context, m *entity.WorkspaceMember) error
	RemoveMember(ctx context.Context, workspaceID, userID string) error
	ListMembers(ctx context.Context, workspaceID string) ([]entity.WorkspaceMember, error)
}
