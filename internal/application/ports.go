package application

import (
	"context"
	"time"

	"github.com/fretvault/api/pkg/helpers"
)

// ObjectStore issues presigned URLs against the bucket. *helpers.GCSStore implements it.
type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key, filename string, ttl time.Duration) (string, error)
	Stat(ctx context.Context, key string) (helpers.ObjectAttrs, error)
	Delete(ctx context.Context, key string) error
}

// SearchIndex is the full-text index. *helpers.ESIndexer implements it.
type SearchIndex interface {
	Index(ctx context.Context, index, id string, doc any) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, query map[string]any, size int) ([]helpers.SearchHit, error)
}

// JobPublisher enqueues background jobs. *helpers.RabbitPublisher implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func clampSize(size, def, limit int) int {
	if size <= 0 {
		return def
	}
	if size > limit {
		return limit
	}
	return size
}
