package entity

import "time"

const DefaultTuning = "EADGBE"

// Tab is the current state of a tablature. Version increases by one on every change.
type Tab struct {
	ID        string
	UserID    string
	Title     string
	Artist    string
	Tuning    string
	Capo      int
	Content   string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TabRevision is an immutable snapshot of a tab at a version.
type TabRevision struct {
	ID        string
	TabID     string
	Version   int
	Title     string
	Artist    string
	Tuning    string
	Capo      int
	Content   string
	Message   string
	CreatedBy string
	CreatedAt time.Time
}

// Snapshot builds the revision for the tab's current version.
func (t *Tab) Snapshot(message, createdBy string) *TabRevision {
	return &TabRevision{
		TabID:     t.ID,
		Version:   t.Version,
		Title:     t.Title,
		Artist:    t.Artist,
		Tuning:    t.Tuning,
		Capo:      t.Capo,
		Content:   t.Content,
		Message:   message,
		CreatedBy: createdBy,
	}
}
