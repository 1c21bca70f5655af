package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/config"
	"github.com/fretvault/api/internal/domain/entity"
	repo "github.com/fretvault/api/internal/domain/repository"
	"github.com/fretvault/api/pkg/mailer"
	mailtpl "github.com/fretvault/api/pkg/mailer/templates"
	"github.com/fretvault/api/pkg/slug"
)

const maxSlugAttempts = 50

// uniqueWorkspaceSlug returns slug(name), suffixed with -2, -3, ... until it is free.
func uniqueWorkspaceSlug(ctx context.Context, workspaces repo.WorkspaceRepository, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "workspace"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		taken, err := workspaces.SlugExists(ctx, candidate)
		if err != nil {
			return "", repoErr("check workspace slug", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + uuid.NewString()[:8], nil
}

// authorize returns the caller's role in the workspace. Non-members get
// ErrNotFound so the workspace's existence is not revealed.
func authorize(ctx context.Context, workspaces repo.WorkspaceRepository, userID, workspaceID string, write bool) (entity.Role, error) {
	role, err := workspaces.GetRole(ctx, workspaceID, userID)
	if err != nil {
		return "", repoErr("get role", err)
	}
	if write && !role.CanWrite() {
		return role, ErrForbidden
	}
	return role, nil
}

type WorkspaceService struct {
	Workspaces repo.WorkspaceRepository
	Users      repo.UserRepository
	Publisher  JobPublisher // optional
	Config     *config.Config
	Logger     *logrus.Logger
}

func NewWorkspaceService(workspaces repo.WorkspaceRepository, users repo.UserRepository, pub JobPublisher,
	cfg *config.Config, logger *logrus.Logger) *WorkspaceService {
	return &WorkspaceService{Workspaces: workspaces, Users: users, Publisher: pub, Config: cfg, Logger: logger}
}

// WorkspaceDetail is a workspace with the caller's role and the member list.
type WorkspaceDetail struct {
	Workspace entity.Workspace
	Role      entity.Role
	Members   []entity.WorkspaceMember
}

func (s *WorkspaceService) List(ctx context.Context, userID string) ([]entity.Membership, error) {
	out, err := s.Workspaces.ListForUser(ctx, userID)
	return out, repoErr("list workspaces", err)
}

func (s *WorkspaceService) Create(ctx context.Context, userID, name string, kind entity.WorkspaceKind) (*entity.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if kind == "" {
		kind = entity.WorkspaceBand
	}
	wsSlug, err := uniqueWorkspaceSlug(ctx, s.Workspaces, name)
	if err != nil {
		return nil, err
	}
	w := &entity.Workspace{Name: name, Slug: wsSlug, Kind: kind, OwnerID: userID}
	if err := s.Workspaces.Create(ctx, w); err != nil {
		return nil, repoErr("create workspace", err)
	}
	return w, nil
}

func (s *WorkspaceService) Get(ctx context.Context, userID, workspaceID string) (*WorkspaceDetail, error) {
	role, err := authorize(ctx, s.Workspaces, userID, workspaceID, false)
	if err != nil {
		return nil, err
	}
	w, err := s.Workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, repoErr("get workspace", err)
	}
	members, err := s.Workspaces.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, repoErr("list members", err)
	}
	return &WorkspaceDetail{Workspace: *w, Role: role, Members: members}, nil
}

func (s *WorkspaceService) requireOwner(ctx context.Context, userID, workspaceID string) (*entity.Workspace, error) {
	role, err := authorize(ctx, s.Workspaces, userID, workspaceID, false)
	if err != nil {
		return nil, err
	}
	if role != entity.RoleOwner {
		return nil, ErrForbidden
	}
	w, err := s.Workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, repoErr("get workspace", err)
	}
	return w, nil
}

// AddMember adds an existing user by email and mails them an invite.
func (s *WorkspaceService) AddMember(ctx context.Context, userID, workspaceID, email string, role entity.Role) (*entity.WorkspaceMember, error) {
	w, err := s.requireOwner(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if role != entity.RoleEditor && role != entity.RoleViewer {
		return nil, invalid("role", "must be one of: editor, viewer")
	}
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, invalid("email", "no account with this email")
	}
	if err != nil {
		return nil, repoErr("lookup user", err)
	}

	m := &entity.WorkspaceMember{WorkspaceID: w.ID, UserID: u.ID, Role: role, UserName: u.Name, UserEmail: u.Email}
	if err := s.Workspaces.AddMember(ctx, m); err != nil {
		return nil, repoErr("add member", err)
	}

	inviter := ""
	if owner, err := s.Users.GetByID(ctx, userID); err == nil {
		inviter = owner.Name
	}
	publishEmail(ctx, s.Publisher, s.Config, s.Logger, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.WorkspaceInvite,
		Data: mailtpl.NewWorkspaceInviteData(s.Config, u.Name, u.Email,
			mailtpl.WithWorkspace(w.Name, strings.TrimRight(s.Config.AppURL, "/")+"/workspaces/"+w.ID, inviter, string(role))),
	})
	return m, nil
}

// RemoveMember lets the owner remove anyone but themselves; other members may only leave.
func (s *WorkspaceService) RemoveMember(ctx context.Context, userID, workspaceID, memberID string) error {
	role, err := authorize(ctx, s.Workspaces, userID, workspaceID, false)
	if err != nil {
		return err
	}
	if role != entity.RoleOwner && memberID != userID {
		return ErrForbidden
	}
	w, err := s.Workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return repoErr("get workspace", err)
	}
	if memberID == w.OwnerID {
		return invalid("user_id", "the workspace owner cannot be removed")
	}
	return repoErr("remove member", s.Workspaces.RemoveMember(ctx, workspaceID, memberID))
}
