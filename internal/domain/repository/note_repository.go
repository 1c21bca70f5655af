package repository

import (
	"context"

	"github.com/fretvault/api/internal/domain/entity"
)

type NoteRepository interface {
	// Create inserts the note and its outgoing link targets.
	Create(ctx context.Context, n *entity.Note, links []string) error
	GetBySlug(ctx context.Context, workspaceID, slug string) (*entity.Note, error)
	List(ctx context.Context, workspaceID string) ([]entity.NoteSummary, error)
	// Update replaces the note fields and its outgoing link targets.
	Update(ctx context.Context, n *entity.Note, links []string) error
	Delete(ctx context.Context, id string) error
	// FindBySlugs returns the notes of the workspace whose slug is in slugs, keyed by slug.
	FindBySlugs(ctx context.Context, workspaceID string, slugs []string) (map[string]entity.NoteSummary, error)
	Backlinks(ctx context.Context, workspaceID, slug string) ([]entity.NoteSummary, error)
}
