package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/domain/repository"
)

type TabRepository struct {
	pool *pgxpool.Pool
}

func NewTabRepository(pool *pgxpool.Pool) *TabRepository {
	return &TabRepository{pool: pool}
}

const tabColumns = `id, user_id, title, artist, tuning, capo, content, version, created_at, updated_at`

func scanTab(row pgx.Row, t *entity.Tab) error {
	return row.Scan(&t.ID, &t.UserID, &t.Title, &t.Artist, &t.Tuning, &t.Capo, &t.Content, &t.Version,
		&t.CreatedAt, &t.UpdatedAt)
}

func insertRevision(ctx context.Context, tx pgx.Tx, rev *entity.TabRevision) error {
	return tx.QueryRow(ctx, `
		INSERT INTO tab_revisions (tab_id, version, title, artist, tuning, capo, content, message, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, rev.TabID, rev.Version, rev.Title, rev.Artist, rev.Tuning, rev.Capo, rev.Content, rev.Message, rev.CreatedBy).
		Scan(&rev.ID, &rev.CreatedAt)
}

func (r *TabRepository) Create(ctx context.Context, t *entity.Tab, rev *entity.TabRevision) error {
	return mapErr(inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO tabs (user_id, title, artist, tuning, capo, content, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`, t.UserID, t.Title, t.Artist, t.Tuning, t.Capo, t.Content, t.Version).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		rev.TabID = t.ID
		return insertRevision(ctx, tx, rev)
	}))
}

func (r *TabRepository) GetByID(ctx context.Context, id string) (*entity.Tab, error) {
	t := &entity.Tab{}
	if err := scanTab(r.pool.QueryRow(ctx, `SELECT `+tabColumns+` FROM tabs WHERE id = $1`, id), t); err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (r *TabRepository) ListByUser(ctx context.Context, userID string, f repository.TabFilter) ([]entity.Tab, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tabColumns+`
		FROM tabs
		WHERE user_id = $1
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR artist ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR artist ILIKE $3)
		ORDER BY updated_at DESC
	`, userID, f.Query, f.Artist)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]entity.Tab, 0)
	for rows.Next() {
		var t entity.Tab
		if err := scanTab(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TabRepository) Update(ctx context.Context, t *entity.Tab, rev *entity.TabRevision, prevVersion int) error {
	return mapErr(inTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE tabs
			SET title = $1, artist = $2, tuning = $3, capo = $4, content = $5, version = $6, updated_at = now()
			WHERE id = $7 AND version = $8
			RETURNING updated_at
		`, t.Title, t.Artist, t.Tuning, t.Capo, t.Content, t.Version, t.ID, prevVersion).Scan(&t.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if eErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tabs WHERE id = $1)`, t.ID).Scan(&exists); eErr != nil {
				return eErr
			}
			if exists {
				return repository.ErrConflict
			}
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		rev.TabID = t.ID
		return insertRevision(ctx, tx, rev)
	}))
}

func (r *TabRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tabs WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TabRepository) ListRevisions(ctx context.Context, tabID string) ([]entity.TabRevision, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tab_id, version, title, artist, tuning, capo, message, COALESCE(created_by::text, ''), created_at
		FROM tab_revisions
		WHERE tab_id = $1
		ORDER BY version DESC
	`, tabID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]entity.TabRevision, 0)
	for rows.Next() {
		var rev entity.TabRevision
		if err := rows.Scan(&rev.ID, &rev.TabID, &rev.Version, &rev.Title, &rev.Artist, &rev.Tuning, &rev.Capo,
			&rev.Message, &rev.CreatedBy, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *TabRepository) GetRevision(ctx context.Context, tabID string, version int) (*entity.TabRevision, error) {
	rev := &entity.TabRevision{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, tab_id, version, title, artist, tuning, capo, content, message, COALESCE(created_by::text, ''), created_at
		FROM tab_revisions
		WHERE tab_id = $1 AND version = $2
	`, tabID, version).Scan(&rev.ID, &rev.TabID, &rev.Version, &rev.Title, &rev.Artist, &rev.Tuning, &rev.Capo,
		&rev.Content, &rev.Message, &rev.CreatedBy, &rev.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return rev, nil
}

var _ repository.TabRepository = (*TabRepository)(nil)
