package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/domain/repository"
)

type PracticePlanRepository struct {
	pool *pgxpool.Pool
}

func NewPracticePlanRepository(pool *pgxpool.Pool) *PracticePlanRepository {
	return &PracticePlanRepository{pool: pool}
}

const planColumns = `id, user_id, title, description, goal_minutes_per_day, is_archived, created_at, updated_at`

func scanPlan(row pgx.Row, p *entity.PracticePlan) error {
	return row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.GoalMinutesPerDay, &p.IsArchived,
		&p.CreatedAt, &p.UpdatedAt)
}

func (r *PracticePlanRepository) Create(ctx context.Context, p *entity.PracticePlan) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO practice_plans (user_id, title, description, goal_minutes_per_day, is_archived)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Title, p.Description, p.GoalMinutesPerDay, p.IsArchived).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapErr(err)
}

func (r *PracticePlanRepository) GetByID(ctx context.Context, id string) (*entity.PracticePlan, error) {
	p := &entity.PracticePlan{}
	if err := scanPlan(r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM practice_plans WHERE id = $1`, id), p); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *PracticePlanRepository) ListByUser(ctx context.Context, userID string, archived *bool) ([]entity.PracticePlan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+planColumns+`
		FROM practice_plans
		WHERE user_id = $1 AND ($2::boolean IS NULL OR is_archived = $2)
		ORDER BY updated_at DESC
	`, userID, archived)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]entity.PracticePlan, 0)
	for rows.Next() {
		var p entity.PracticePlan
		if err := scanPlan(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PracticePlanRepository) Update(ctx context.Context, p *entity.PracticePlan) error {
	p.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE practice_plans
		SET title = $1, description = $2, goal_minutes_per_day = $3, is_archived = $4, updated_at = $5
		WHERE id = $6
	`, p.Title, p.Description, p.GoalMinutesPerDay, p.IsArchived, p.UpdatedAt, p.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PracticePlanRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM practice_plans WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PracticePlanRepository = (*PracticePlanRepository)(nil)

type PracticeItemRepository struct {
	pool *pgxpool.Pool
}

func NewPracticeItemRepository(pool *pgxpool.Pool) *PracticeItemRepository {
	return &PracticeItemRepository{pool: pool}
}

const itemColumns = `id, plan_id, title, notes, category, duration_minutes, target_bpm, tab_id, position, created_at, updated_at`

func scanItem(row pgx.Row, it *entity.PracticeItem) error {
	var category string
	if err := row.Scan(&it.ID, &it.PlanID, &it.Title, &it.Notes, &category, &it.DurationMinutes,
		&it.TargetBPM, &it.TabID, &it.Position, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return err
	}
	it.Category = entity.ItemCategory(category)
	return nil
}

// lockPlan serializes position changes within a plan.
func lockPlan(ctx context.Context, tx pgx.Tx, planID string) error {
	var id string
	return tx.QueryRow(ctx, `SELECT id FROM practice_plans WHERE id = $1 FOR UPDATE`, planID).Scan(&id)
}

func (r *PracticeItemRepository) Create(ctx context.Context, it *entity.PracticeItem) error {
	return mapErr(inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockPlan(ctx, tx, it.PlanID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO practice_items (plan_id, title, notes, category, duration_minutes, target_bpm, tab_id, position)
			SELECT $1, $2, $3, $4, $5, $6, $7, COALESCE(MAX(position) + 1, 0)
			FROM practice_items WHERE plan_id = $1
			RETURNING id, position, created_at, updated_at
		`, it.PlanID, it.Title, it.Notes, string(it.Category), it.DurationMinutes, it.TargetBPM, it.TabID).
			Scan(&it.ID, &it.Position, &it.CreatedAt, &it.UpdatedAt)
	}))
}

func (r *PracticeItemRepository) GetByID(ctx context.Context, id string) (*entity.PracticeItem, error) {
	it := &entity.PracticeItem{}
	if err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM practice_items WHERE id = $1`, id), it); err != nil {
		return nil, mapErr(err)
	}
	return it, nil
}

func (r *PracticeItemRepository) ListByPlan(ctx context.Context, planID string) ([]entity.PracticeItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+` FROM practice_items WHERE plan_id = $1 ORDER BY position
	`, planID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]entity.PracticeItem, 0)
	for rows.Next() {
		var it entity.PracticeItem
		if err := scanItem(rows, &it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PracticeItemRepository) Update(ctx context.Context, it *entity.PracticeItem) error {
	it.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE practice_items
		SET title = $1, notes = $2, category = $3, duration_minutes = $4, target_bpm = $5, tab_id = $6, updated_at = $7
		WHERE id = $8
	`, it.Title, it.Notes, string(it.Category), it.DurationMinutes, it.TargetBPM, it.TabID, it.UpdatedAt, it.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PracticeItemRepository) Delete(ctx context.Context, id string) error {
	return mapErr(inTx(ctx, r.pool, func(tx pgx.Tx) error {
		var (
			planID   string
			position int
		)
		if err := tx.QueryRow(ctx, `
			DELETE FROM practice_items WHERE id = $1 RETURNING plan_id, position
		`, id).Scan(&planID, &position); err != nil {
			return err
		}
		if err := lockPlan(ctx, tx, planID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE practice_items SET position = position - 1 WHERE plan_id = $1 AND position > $2
		`, planID, position)
		return err
	}))
}

func (r *PracticeItemRepository) Reorder(ctx context.Context, planID string, ids []string) error {
	return mapErr(inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockPlan(ctx, tx, planID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE practice_items AS i
			SET position = t.ord - 1, updated_at = now()
			FROM unnest($2::uuid[]) WITH ORDINALITY AS t(id, ord)
			WHERE i.id = t.id AND i.plan_id = $1
		`, planID, ids); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE practice_plans SET updated_at = now() WHERE id = $1`, planID)
		return err
	}))
}

func (r *PracticeItemRepository) AddLog(ctx context.Context, l *entity.PracticeLog) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO practice_logs (item_id, user_id, minutes, bpm, note, practiced_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, l.ItemID, l.UserID, l.Minutes, l.BPM, l.Note, l.PracticedAt).Scan(&l.ID, &l.CreatedAt)
	return mapErr(err)
}

const logColumns = `l.id, l.item_id, l.user_id, l.minutes, l.bpm, l.note, l.practiced_at, l.created_at`

func scanLogs(rows pgx.Rows) ([]entity.PracticeLog, error) {
	defer rows.Close()
	out := make([]entity.PracticeLog, 0)
	for rows.Next() {
		var l entity.PracticeLog
		if err := rows.Scan(&l.ID, &l.ItemID, &l.UserID, &l.Minutes, &l.BPM, &l.Note, &l.PracticedAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PracticeItemRepository) ListLogs(ctx context.Context, itemID string) ([]entity.PracticeLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+logColumns+` FROM practice_logs l WHERE l.item_id = $1 ORDER BY l.practiced_at DESC
	`, itemID)
	if err != nil {
		return nil, mapErr(err)
	}
	return scanLogs(rows)
}

func (r *PracticeItemRepository) ListPlanLogsSince(ctx context.Context, planID string, since time.Time) ([]entity.PracticeLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+logColumns+`
		FROM practice_logs l
		JOIN practice_items i ON i.id = l.item_id
		WHERE i.plan_id = $1 AND l.practiced_at >= $2
		ORDER BY l.practiced_at
	`, planID, since)
	if err != nil {
		return nil, mapErr(err)
	}
	return scanLogs(rows)
}

var _ repository.PracticeItemRepository = (*PracticeItemRepository)(nil)
