package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/domain/repository"
)

type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

func (r *WorkspaceRepository) Create(ctx context.Context, w *entity.Workspace) error {
	return mapErr(inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertWorkspace(ctx, tx, w)
	}))
}

// insertWorkspace adds the workspace row and its owner membership inside tx.
func insertWorkspace(ctx context.Context, tx pgx.Tx, w *entity.Workspace) error {
	if err := tx.QueryRow(ctx, `
		INSERT INTO workspaces (name, slug, kind, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, w.Name, w.Slug, string(w.Kind), w.OwnerID).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
	`, w.ID, w.OwnerID, string(entity.RoleOwner))
	return err
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*entity.Workspace, error) {
	w := &entity.Workspace{}
	var kind string
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, kind, owner_id, created_at, updated_at
		FROM workspaces WHERE id = $1
	`, id).Scan(&w.ID, &w.Name, &w.Slug, &kind, &w.OwnerID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	w.Kind = entity.WorkspaceKind(kind)
	return w, nil
}

func (r *WorkspaceRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM workspaces WHERE slug = $1)`, slug).Scan(&exists)
	return exists, mapErr(err)
}

func (r *WorkspaceRepository) ListForUser(ctx context.Context, userID string) ([]entity.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT w.id, w.name, w.slug, w.kind, w.owner_id, w.created_at, w.updated_at, m.role
		FROM workspace_members m
		JOIN workspaces w ON w.id = m.workspace_id
		WHERE m.user_id = $1
		ORDER BY w.kind DESC, w.name
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]entity.Membership, 0)
	for rows.Next() {
		var (
			m          entity.Membership
			kind, role string
		)
		if err := rows.Scan(&m.Workspace.ID, &m.Workspace.Name, &m.Workspace.Slug, &kind, &m.Workspace.OwnerID,
			&m.Workspace.CreatedAt, &m.Workspace.UpdatedAt, &role); err != nil {
			return nil, err
		}
		m.Workspace.Kind = entity.WorkspaceKind(kind)
		m.Role = entity.Role(role)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *WorkspaceRepository) GetRole(ctx context.Context, workspaceID, userID string) (entity.Role, error) {
	var role string
	err := r.pool.QueryRow(ctx, `
		SELECT role FROM workspace_members WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID).Scan(&role)
	if err != nil {
		return "", mapErr(err)
	}
	return entity.Role(role), nil
}

func (r *WorkspaceRepository) AddMember(ctx context.Context, m *entity.WorkspaceMember) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, m.WorkspaceID, m.UserID, string(m.Role)).Scan(&m.CreatedAt)
	return mapErr(err)
}

func (r *WorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *WorkspaceRepository) ListMembers(ctx context.Context, workspaceID string) ([]entity.WorkspaceMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.workspace_id, m.user_id, m.role, u.name, u.email, m.created_at
		FROM workspace_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = $1
		ORDER BY m.created_at
	`, workspaceID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]entity.WorkspaceMember, 0)
	for rows.Next() {
		var (
			m    entity.WorkspaceMember
			role string
		)
		if err := rows.Scan(&m.WorkspaceID, &m.UserID, &role, &m.UserName, &m.UserEmail, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = entity.Role(role)
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ repository.WorkspaceRepository = (*WorkspaceRepository)(nil)
