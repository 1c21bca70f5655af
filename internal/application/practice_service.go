package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/domain/entity"
	repo "github.com/fretvault/api/internal/domain/repository"
)

const (
	defaultStatsDays = 7
	maxStatsDays     = 90
)

type PracticeService struct {
	Plans  repo.PracticePlanRepository
	Items  repo.PracticeItemRepository
	Tabs   repo.TabRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewPracticeService(plans repo.PracticePlanRepository, items repo.PracticeItemRepository, tabs repo.TabRepository, logger *logrus.Logger) *PracticeService {
	return &PracticeService{Plans: plans, Items: items, Tabs: tabs, Logger: logger, Now: time.Now}
}

type PlanInput struct {
	Title             string
	Description       string
	GoalMinutesPerDay int
}

type PlanPatch struct {
	Title             *string
	Description       *string
	GoalMinutesPerDay *int
	IsArchived        *bool
}

type ItemInput struct {
	PlanID          string
	Title           string
	Notes           string
	Category        entity.ItemCategory
	DurationMinutes int
	TargetBPM       *int
	TabID           *string
}

// ItemPatch updates only non-nil fields. A zero TargetBPM or empty TabID clears the value.
type ItemPatch struct {
	Title           *string
	Notes           *string
	Category        *entity.ItemCategory
	DurationMinutes *int
	TargetBPM       *int
	TabID           *string
}

type LogInput struct {
	Minutes     int
	BPM         *int
	Note        string
	PracticedAt *time.Time
}

// PlanStats summarizes logged practice for a plan over the last Days days (UTC).
type PlanStats struct {
	PlanID       string        `json:"plan_id"`
	Days         int           `json:"days"`
	Since        time.Time     `json:"since"`
	TotalMinutes int           `json:"total_minutes"`
	GoalMinutes  int           `json:"goal_minutes_per_day"`
	DaysGoalMet  int           `json:"days_goal_met"`
	Items        []ItemMinutes `json:"items"`
	Daily        []DayMinutes  `json:"daily"`
}

type ItemMinutes struct {
	ItemID  string `json:"item_id"`
	Title   string `json:"title"`
	Minutes int    `json:"minutes"`
}

type DayMinutes struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
	GoalMet bool   `json:"goal_met"`
}

func (s *PracticeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *PracticeService) ownedPlan(ctx context.Context, userID, planID string) (*entity.PracticePlan, error) {
	p, err := s.Plans.GetByID(ctx, planID)
	if err != nil {
		return nil, repoErr("get plan", err)
	}
	if p.UserID != userID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *PracticeService) ownedItem(ctx context.Context, userID, itemID string) (*entity.PracticeItem, error) {
	it, err := s.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, repoErr("get item", err)
	}
	if _, err := s.ownedPlan(ctx, userID, it.PlanID); err != nil {
		return nil, err
	}
	return it, nil
}

// checkTab ensures tabID references a tab of the same user.
func (s *PracticeService) checkTab(ctx context.Context, userID, tabID string) error {
	t, err := s.Tabs.GetByID(ctx, tabID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && t.UserID != userID) {
		return invalid("tab_id", "must reference one of your tabs")
	}
	return repoErr("get tab", err)
}

func (s *PracticeService) ListPlans(ctx context.Context, userID string, archived *bool) ([]entity.PracticePlan, error) {
	out, err := s.Plans.ListByUser(ctx, userID, archived)
	return out, repoErr("list plans", err)
}

func (s *PracticeService) CreatePlan(ctx context.Context, userID string, in PlanInput) (*entity.PracticePlan, error) {
	p := &entity.PracticePlan{
		UserID:            userID,
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		GoalMinutesPerDay: in.GoalMinutesPerDay,
	}
	if p.Title == "" {
		return nil, invalid("title", "is required")
	}
	if err := s.Plans.Create(ctx, p); err != nil {
		return nil, repoErr("create plan", err)
	}
	p.Items = []entity.PracticeItem{}
	return p, nil
}

// GetPlan returns the plan with its items ordered by position.
func (s *PracticeService) GetPlan(ctx context.Context, userID, planID string) (*entity.PracticePlan, error) {
	p, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	items, err := s.Items.ListByPlan(ctx, p.ID)
	if err != nil {
		return nil, repoErr("list items", err)
	}
	p.Items = items
	return p, nil
}

func (s *PracticeService) UpdatePlan(ctx context.Context, userID, planID string, in PlanPatch) (*entity.PracticePlan, error) {
	p, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, invalid("title", "is required")
		}
		p.Title = t
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.GoalMinutesPerDay != nil {
		p.GoalMinutesPerDay = *in.GoalMinutesPerDay
	}
	if in.IsArchived != nil {
		p.IsArchived = *in.IsArchived
	}
	if err := s.Plans.Update(ctx, p); err != nil {
		return nil, repoErr("update plan", err)
	}
	return s.GetPlan(ctx, userID, planID)
}

func (s *PracticeService) DeletePlan(ctx context.Context, userID, planID string) error {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return err
	}
	return repoErr("delete plan", s.Plans.Delete(ctx, planID))
}

// ReorderItems applies a new order. ids must be a permutation of the plan's item ids.
func (s *PracticeService) ReorderItems(ctx context.Context, userID, planID string, ids []string) (*entity.PracticePlan, error) {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	items, err := s.Items.ListByPlan(ctx, planID)
	if err != nil {
		return nil, repoErr("list items", err)
	}
	if !isPermutation(items, ids) {
		return nil, invalid("item_ids", "must list every item of the plan exactly once")
	}
	if err := s.Items.Reorder(ctx, planID, ids); err != nil {
		return nil, repoErr("reorder items", err)
	}
	return s.GetPlan(ctx, userID, planID)
}

func isPermutation(items []entity.PracticeItem, ids []string) bool {
	if len(items) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(items))
	for _, it := range items {
		want[it.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}

// Stats aggregates the plan's logs over the last days days, today included.
func (s *PracticeService) Stats(ctx context.Context, userID, planID string, days int) (*PlanStats, error) {
	p, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	days = clampSize(days, defaultStatsDays, maxStatsDays)

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	items, err := s.Items.ListByPlan(ctx, planID)
	if err != nil {
		return nil, repoErr("list items", err)
	}
	logs, err := s.Items.ListPlanLogsSince(ctx, planID, since)
	if err != nil {
		return nil, repoErr("list logs", err)
	}

	perItem := make(map[string]int, len(items))
	perDay := make(map[string]int, days)
	total := 0
	for _, l := range logs {
		perItem[l.ItemID] += l.Minutes
		perDay[l.PracticedAt.UTC().Format(time.DateOnly)] += l.Minutes
		total += l.Minutes
	}

	st := &PlanStats{
		PlanID:       p.ID,
		Days:         days,
		Since:        since,
		TotalMinutes: total,
		GoalMinutes:  p.GoalMinutesPerDay,
		Items:        make([]ItemMinutes, 0, len(items)),
		Daily:        make([]DayMinutes, 0, days),
	}
	for _, it := range items {
		st.Items = append(st.Items, ItemMinutes{ItemID: it.ID, Title: it.Title, Minutes: perItem[it.ID]})
	}
	sort.SliceStable(st.Items, func(i, j int) bool { return st.Items[i].Minutes > st.Items[j].Minutes })

	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		met := p.GoalMinutesPerDay > 0 && perDay[key] >= p.GoalMinutesPerDay
		if met {
			st.DaysGoalMet++
		}
		st.Daily = append(st.Daily, DayMinutes{Date: key, Minutes: perDay[key], GoalMet: met})
	}
	return st, nil
}

func (s *PracticeService) ListItems(ctx context.Context, userID, planID string) ([]entity.PracticeItem, error) {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	out, err := s.Items.ListByPlan(ctx, planID)
	return out, repoErr("list items", err)
}

// CreateItem appends an item at the end of the plan.
func (s *PracticeService) CreateItem(ctx context.Context, userID string, in ItemInput) (*entity.PracticeItem, error) {
	if _, err := s.ownedPlan(ctx, userID, in.PlanID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalid("plan_id", "must reference one of your plans")
		}
		return nil, err
	}
	if in.TabID != nil && *in.TabID != "" {
		if err := s.checkTab(ctx, userID, *in.TabID); err != nil {
			return nil, err
		}
	} else {
		in.TabID = nil
	}
	if in.Category == "" {
		in.Category = entity.CategoryOther
	}
	it := &entity.PracticeItem{
		PlanID:          in.PlanID,
		Title:           strings.TrimSpace(in.Title),
		Notes:           in.Notes,
		Category:        in.Category,
		DurationMinutes: in.DurationMinutes,
		TargetBPM:       in.TargetBPM,
		TabID:           in.TabID,
	}
	if it.Title == "" {
		return nil, invalid("title", "is required")
	}
	if err := s.Items.Create(ctx, it); err != nil {
		return nil, repoErr("create item", err)
	}
	return it, nil
}

func (s *PracticeService) GetItem(ctx context.Context, userID, itemID string) (*entity.PracticeItem, error) {
	return s.ownedItem(ctx, userID, itemID)
}

func (s *PracticeService) UpdateItem(ctx context.Context, userID, itemID string, in ItemPatch) (*entity.PracticeItem, error) {
	it, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, invalid("title", "is required")
		}
		it.Title = t
	}
	if in.Notes != nil {
		it.Notes = *in.Notes
	}
	if in.Category != nil {
		it.Category = *in.Category
	}
	if in.DurationMinutes != nil {
		it.DurationMinutes = *in.DurationMinutes
	}
	if in.TargetBPM != nil {
		if *in.TargetBPM == 0 {
			it.TargetBPM = nil
		} else {
			v := *in.TargetBPM
			it.TargetBPM = &v
		}
	}
	if in.TabID != nil {
		if *in.TabID == "" {
			it.TabID = nil
		} else {
			if err := s.checkTab(ctx, userID, *in.TabID); err != nil {
				return nil, err
			}
			v := *in.TabID
			it.TabID = &v
		}
	}
	if err := s.Items.Update(ctx, it); err != nil {
		return nil, repoErr("update item", err)
	}
	return it, nil
}

// DeleteItem removes the item; later items move up one position.
func (s *PracticeService) DeleteItem(ctx context.Context, userID, itemID string) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	return repoErr("delete item", s.Items.Delete(ctx, itemID))
}

func (s *PracticeService) AddLog(ctx context.Context, userID, itemID string, in LogInput) (*entity.PracticeLog, error) {
	it, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	at := s.now().UTC()
	if in.PracticedAt != nil {
		if in.PracticedAt.After(at.Add(time.Minute)) {
			return nil, invalid("practiced_at", "must not be in the future")
		}
		at = in.PracticedAt.UTC()
	}
	l := &entity.PracticeLog{
		ItemID:      it.ID,
		UserID:      userID,
		Minutes:     in.Minutes,
		BPM:         in.BPM,
		Note:        in.Note,
		PracticedAt: at,
	}
	if err := s.Items.AddLog(ctx, l); err != nil {
		return nil, repoErr("add log", err)
	}
	return l, nil
}

func (s *PracticeService) ListLogs(ctx context.Context, userID, itemID string) ([]entity.PracticeLog, error) {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	out, err := s.Items.ListLogs(ctx, itemID)
	return out, repoErr("list logs", err)
}
