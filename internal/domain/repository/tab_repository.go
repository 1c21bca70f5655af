package repository

import (
	"context"

	"github.com/fretvault/api/internal/domain/entity"
)

type TabFilter struct {
	Query  string
	Artist string
}

type TabRepository interface {
	// Create inserts the tab and its first revision in one transaction.
	Create(ctx context.Context, t *entity.Tab, rev *entity.TabRevision) error
	GetByID(ctx context.Context, id string) (*entity.Tab, error)
	ListByUser(ctx context.Context, userID string, f TabFilter) ([]entity.Tab, error)
	// Update persists t and appends rev only if the stored version is still prevVersion.
	// A concurrent change yields ErrConflict.
	Update(ctx context.Context, t *entity.Tab, rev *entity.TabRevision, prevVersion int) error
	Delete(ctx context.Context, id string) error
	ListRevisions(ctx context.Context, tabID string) ([]entity.TabRevision, error)
	GetRevision(ctx context.Context, tabID string, version int) (*entity.TabRevision, error)
}
