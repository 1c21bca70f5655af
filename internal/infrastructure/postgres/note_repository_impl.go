package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/domain/repository"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func replaceLinks(ctx context.Context, tx pgx.Tx, noteID string, links []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM note_links WHERE source_note_id = $1`, noteID); err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO note_links (source_note_id, target_slug)
		SELECT $1, s FROM unnest($2::text[]) AS s
		ON CONFLICT DO NOTHING
	`, noteID, links)
	return err
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note, links []string) error {
	return mapErr(inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO notes (workspace_id, slug, title, content, author_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`, n.WorkspaceID, n.Slug, n.Title, n.Content, n.AuthorID).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, n.ID, links)
	}))
}

func (r *NoteRepository) GetBySlug(ctx context.Context, workspaceID, slug string) (*entity.Note, error) {
	n := &entity.Note{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, workspace_id, slug, title, content, COALESCE(author_id::text, ''), created_at, updated_at
		FROM notes
		WHERE workspace_id = $1 AND slug = $2
	`, workspaceID, slug).Scan(&n.ID, &n.WorkspaceID, &n.Slug, &n.Title, &n.Content, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return n, nil
}

func scanSummaries(rows pgx.Rows) ([]entity.NoteSummary, error) {
	defer rows.Close()
	out := make([]entity.NoteSummary, 0)
	for rows.Next() {
		var s entity.NoteSummary
		if err := rows.Scan(&s.ID, &s.Slug, &s.Title, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *NoteRepository) List(ctx context.Context, workspaceID string) ([]entity.NoteSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, slug, title, updated_at FROM notes WHERE workspace_id = $1 ORDER BY title
	`, workspaceID)
	if err != nil {
		return nil, mapErr(err)
	}
	return scanSummaries(rows)
}

func (r *NoteRepository) Update(ctx context.Context, n *entity.Note, links []string) error {
	n.UpdatedAt = time.Now()
	return mapErr(inTx(ctx, r.pool, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, `
			UPDATE notes SET slug = $1, title = $2, content = $3, updated_at = $4 WHERE id = $5
		`, n.Slug, n.Title, n.Content, n.UpdatedAt, n.ID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return replaceLinks(ctx, tx, n.ID, links)
	}))
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) FindBySlugs(ctx context.Context, workspaceID string, slugs []string) (map[string]entity.NoteSummary, error) {
	out := make(map[string]entity.NoteSummary, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, slug, title, updated_at FROM notes WHERE workspace_id = $1 AND slug = ANY($2::text[])
	`, workspaceID, slugs)
	if err != nil {
		return nil, mapErr(err)
	}
	list, err := scanSummaries(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		out[s.Slug] = s
	}
	return out, nil
}

func (r *NoteRepository) Backlinks(ctx context.Context, workspaceID, slug string) ([]entity.NoteSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.slug, n.title, n.updated_at
		FROM note_links l
		JOIN notes n ON n.id = l.source_note_id
		WHERE n.workspace_id = $1 AND l.target_slug = $2
		ORDER BY n.title
	`, workspaceID, slug)
	if err != nil {
		return nil, mapErr(err)
	}
	return scanSummaries(rows)
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
