package entity

import "time"

// Note is a markdown document addressed by slug inside a workspace.
type Note struct {
	ID          string
	WorkspaceID string
	Slug        string
	Title       string
	Content     string
	AuthorID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoteSummary is a note without its content, used for listings.
type NoteSummary struct {
	ID        string
	Slug      string
	Title     string
	UpdatedAt time.Time
}
