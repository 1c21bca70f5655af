package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/domain/repository"
)

type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

const fileColumns = `id, user_id, object_key, filename, content_type, size_bytes, status, created_at, uploaded_at`

func scanFile(row pgx.Row, f *entity.StoredFile) error {
	var status string
	if err := row.Scan(&f.ID, &f.UserID, &f.ObjectKey, &f.Filename, &f.ContentType, &f.SizeBytes, &status,
		&f.CreatedAt, &f.UploadedAt); err != nil {
		return err
	}
	f.Status = entity.FileStatus(status)
	return nil
}

func (r *FileRepository) Create(ctx context.Context, f *entity.StoredFile) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stored_files (user_id, object_key, filename, content_type, size_bytes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, f.UserID, f.ObjectKey, f.Filename, f.ContentType, f.SizeBytes, string(f.Status)).Scan(&f.ID, &f.CreatedAt)
	return mapErr(err)
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*entity.StoredFile, error) {
	f := &entity.StoredFile{}
	if err := scanFile(r.pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM stored_files WHERE id = $1`, id), f); err != nil {
		return nil, mapErr(err)
	}
	return f, nil
}

func (r *FileRepository) ListByUser(ctx context.Context, userID string) ([]entity.StoredFile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+fileColumns+` FROM stored_files WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]entity.StoredFile, 0)
	for rows.Next() {
		var f entity.StoredFile
		if err := scanFile(rows, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FileRepository) MarkUploaded(ctx context.Context, id string, size int64, at time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE stored_files SET status = 'uploaded', size_bytes = $1, uploaded_at = $2 WHERE id = $3
	`, size, at, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM stored_files WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.FileRepository = (*FileRepository)(nil)
