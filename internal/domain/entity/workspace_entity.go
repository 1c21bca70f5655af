package entity

import "time"

type WorkspaceKind string

const (
	WorkspacePersonal WorkspaceKind = "personal"
	WorkspaceBand     WorkspaceKind = "band"
)

// Workspace groups notes for a single user or a band.
type Workspace struct {
	ID        string
	Name      string
	Slug      string
	Kind      WorkspaceKind
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkspaceMember links a user to a workspace with a role.
// UserName and UserEmail are filled on reads joined with users.
type WorkspaceMember struct {
	WorkspaceID string
	UserID      string
	Role        Role
	UserName    string
	UserEmail   string
	CreatedAt   time.Time
}

// Membership is a workspace as seen by one of its members.
type Membership struct {
	Workspace Workspace
	Role      Role
}
