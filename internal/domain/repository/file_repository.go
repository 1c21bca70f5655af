package repository

import (
	"context"
	"time"

	"github.com/fretvault/api/internal/domain/entity"
)

type FileRepository interface {
	Create(ctx context.Context, f *entity.StoredFile) error
	GetByID(ctx context.Context, id string) (*entity.StoredFile, error)
	ListByUser(ctx context.Context, userID string) ([]entity.StoredFile, error)
	MarkUploaded(ctx context.Context, id string, size int64, at time.Time) error
	Delete(ctx context.Context, id string) error
}
