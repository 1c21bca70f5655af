package entity

import "time"

type ItemCategory string

const (
	CategoryTechnique     ItemCategory = "technique"
	CategoryRepertoire    ItemCategory = "repertoire"
	CategoryTheory        ItemCategory = "theory"
	CategoryEarTraining   ItemCategory = "ear_training"
	CategoryImprovisation ItemCategory = "improvisation"
	CategoryOther         ItemCategory = "other"
)

// PracticePlan is an ordered routine of practice items owned by a user.
type PracticePlan struct {
	ID                string
	UserID            string
	Title             string
	Description       string
	GoalMinutesPerDay int
	IsArchived        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items []PracticeItem
}

// PracticeItem is a single exercise inside a plan. Position is dense, 0..n-1.
type PracticeItem struct {
	ID              string
	PlanID          string
	Title           string
	Notes           string
	Category        ItemCategory
	DurationMinutes int
	TargetBPM       *int
	TabID           *string
	Position        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PracticeLog records time spent on an item.
type PracticeLog struct {
	ID          string
	ItemID      string
	UserID      string
	Minutes     int
	BPM         *int
	Note        string
	PracticedAt time.Time
	CreatedAt   time.Time
}
