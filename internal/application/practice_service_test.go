package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/testsupport/memrepo"
	"github.com/fretvault/api/pkg/helpers"
)

func newPracticeFixture(t *testing.T) (*PracticeService, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	svc := NewPracticeService(store.Plans(), store.Items(), store.Tabs(), helpers.NewNopLogger())
	return svc, store
}

func addItems(t *testing.T, svc *PracticeService, userID, planID string, titles ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		it, err := svc.CreateItem(context.Background(), userID, ItemInput{PlanID: planID, Title: title, DurationMinutes: 10})
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}
	return ids
}

func TestPracticeService_PlanOwnership(t *testing.T) {
	svc, _ := newPracticeFixture(t)
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, "u1", PlanInput{Title: " Warmups ", GoalMinutesPerDay: 30})
	require.NoError(t, err)
	assert.Equal(t, "Warmups", p.Title)
	assert.Empty(t, p.Items)

	_, err = svc.GetPlan(ctx, "u2", p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.UpdatePlan(ctx, "u2", p.ID, PlanPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeletePlan(ctx, "u2", p.ID), ErrNotFound)

	archived := true
	got, err := svc.UpdatePlan(ctx, "u1", p.ID, PlanPatch{IsArchived: &archived})
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	active := false
	list, err := svc.ListPlans(ctx, "u1", &active)
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = svc.ListPlans(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPracticeService_ItemsAppendAndCompact(t *testing.T) {
	svc, _ := newPracticeFixture(t)
	ctx := context.Background()
	p, err := svc.CreatePlan(ctx, "u1", PlanInput{Title: "Plan"})
	require.NoError(t, err)

	ids := addItems(t, svc, "u1", p.ID, "a", "b", "c")

	it, err := svc.GetItem(ctx, "u1", ids[2])
	require.NoError(t, err)
	assert.Equal(t, 2, it.Position)
	assert.Equal(t, entity.CategoryOther, it.Category)

	require.NoError(t, svc.DeleteItem(ctx, "u1", ids[0]))
	plan, err := svc.GetPlan(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, "b", plan.Items[0].Title)
	assert.Equal(t, 0, plan.Items[0].Position)
	assert.Equal(t, 1, plan.Items[1].Position)

	_, err = svc.CreateItem(ctx, "u2", ItemInput{PlanID: p.ID, Title: "x", DurationMinutes: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPracticeService_Reorder(t *testing.T) {
	svc, _ := newPracticeFixture(t)
	ctx := context.Background()
	p, err := svc.CreatePlan(ctx, "u1", PlanInput{Title: "Plan"})
	require.NoError(t, err)
	ids := addItems(t, svc, "u1", p.ID, "a", "b", "c")

	got, err := svc.ReorderItems(ctx, "u1", p.ID, []string{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	titles := []string{}
	for i, it := range got.Items {
		titles = append(titles, it.Title)
		assert.Equal(t, i, it.Position)
	}
	assert.Equal(t, []string{"c", "a", "b"}, titles)

	bad := [][]string{
		{ids[0], ids[1]},
		{ids[0], ids[0], ids[1]},
		{ids[0], ids[1], "other"},
	}
	for _, order := range bad {
		_, err := svc.ReorderItems(ctx, "u1", p.ID, order)
		var ie *InputError
		require.ErrorAs(t, err, &ie)
		assert.Contains(t, ie.Details, "item_ids")
	}
}

func TestPracticeService_TabMustBelongToUser(t *testing.T) {
	svc, store := newPracticeFixture(t)
	ctx := context.Background()
	p, err := svc.CreatePlan(ctx, "u1", PlanInput{Title: "Plan"})
	require.NoError(t, err)

	mine := &entity.Tab{UserID: "u1", Title: "Mine", Version: 1}
	require.NoError(t, store.Tabs().Create(ctx, mine, mine.Snapshot("init", "u1")))
	theirs := &entity.Tab{UserID: "u2", Title: "Theirs", Version: 1}
	require.NoError(t, store.Tabs().Create(ctx, theirs, theirs.Snapshot("init", "u2")))

	_, err = svc.CreateItem(ctx, "u1", ItemInput{PlanID: p.ID, Title: "x", DurationMinutes: 5, TabID: &theirs.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	it, err := svc.CreateItem(ctx, "u1", ItemInput{PlanID: p.ID, Title: "x", DurationMinutes: 5, TabID: &mine.ID})
	require.NoError(t, err)
	require.NotNil(t, it.TabID)

	empty := ""
	bpm := 0
	it, err = svc.UpdateItem(ctx, "u1", it.ID, ItemPatch{TabID: &empty, TargetBPM: &bpm})
	require.NoError(t, err)
	assert.Nil(t, it.TabID)
	assert.Nil(t, it.TargetBPM)
}

func TestPracticeService_Stats(t *testing.T) {
	svc, _ := newPracticeFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	p, err := svc.CreatePlan(ctx, "u1", PlanInput{Title: "Plan", GoalMinutesPerDay: 20})
	require.NoError(t, err)
	ids := addItems(t, svc, "u1", p.ID, "scales", "song")

	at := func(d time.Duration) *time.Time { v := now.Add(-d); return &v }
	logs := []struct {
		item    string
		minutes int
		ago     time.Duration
	}{
		{ids[0], 15, time.Hour},
		{ids[1], 10, 2 * time.Hour},
		{ids[0], 5, 24 * time.Hour},
		{ids[1], 30, 10 * 24 * time.Hour}, // outside a 7 day window
	}
	for _, l := range logs {
		_, err := svc.AddLog(ctx, "u1", l.item, LogInput{Minutes: l.minutes, PracticedAt: at(l.ago)})
		require.NoError(t, err)
	}

	st, err := svc.Stats(ctx, "u1", p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, st.Days)
	assert.Equal(t, 30, st.TotalMinutes)
	require.Len(t, st.Daily, 7)
	assert.Equal(t, "2026-05-04", st.Daily[0].Date)
	assert.Equal(t, DayMinutes{Date: "2026-05-10", Minutes: 25, GoalMet: true}, st.Daily[6])
	assert.Equal(t, DayMinutes{Date: "2026-05-09", Minutes: 5, GoalMet: false}, st.Daily[5])
	assert.Equal(t, 1, st.DaysGoalMet)
	assert.Equal(t, []ItemMinutes{{ids[0], "scales", 20}, {ids[1], "song", 10}}, st.Items)

	_, err = svc.Stats(ctx, "u2", p.ID, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPracticeService_Logs(t *testing.T) {
	svc, _ := newPracticeFixture(t)
	ctx := context.Background()
	p, err := svc.CreatePlan(ctx, "u1", PlanInput{Title: "Plan"})
	require.NoError(t, err)
	ids := addItems(t, svc, "u1", p.ID, "a")

	future := time.Now().Add(time.Hour)
	_, err = svc.AddLog(ctx, "u1", ids[0], LogInput{Minutes: 5, PracticedAt: &future})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddLog(ctx, "u1", ids[0], LogInput{Minutes: 5, Note: "slow"})
	require.NoError(t, err)
	_, err = svc.AddLog(ctx, "u2", ids[0], LogInput{Minutes: 5})
	assert.ErrorIs(t, err, ErrNotFound)

	logs, err := svc.ListLogs(ctx, "u1", ids[0])
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "slow", logs[0].Note)
}
