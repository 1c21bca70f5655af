package repository

import (
	"context"
	"time"

	"github.com/fretvault/api/internal/domain/entity"
)

type PracticePlanRepository interface {
	Create(ctx context.Context, p *entity.PracticePlan) error
	GetByID(ctx context.Context, id string) (*entity.PracticePlan, error)
	// ListByUser filters on is_archived when archived is non-nil.
	ListByUser(ctx context.Context, userID string, archived *bool) ([]entity.PracticePlan, error)
	Update(ctx context.Context, p *entity.PracticePlan) error
	Delete(ctx context.Context, id string) error
}

type PracticeItemRepository interface {
	// Create appends the item at the end of its plan and sets Position.
	Create(ctx context.Context, it *entity.PracticeItem) error
	GetByID(ctx context.Context, id string) (*entity.PracticeItem, error)
	ListByPlan(ctx context.Context, planID string) ([]entity.PracticeItem, error)
	Update(ctx context.Context, it *entity.PracticeItem) error
	// Delete removes the item and closes the gap in its plan's positions.
	Delete(ctx context.Context, id string) error
	// Reorder assigns positions 0..n-1 following ids.
	Reorder(ctx context.Context, planID string, ids []string) error

	AddLog(ctx context.Context, l *entity.PracticeLog) error
	ListLogs(ctx context.Context, itemID string) ([]entity.PracticeLog, error)
	ListPlanLogsSince(ctx context.Context, planID string, since time.Time) ([]entity.PracticeLog, error)
}
