package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/internal/domain/entity"
	repo "github.com/fretvault/api/internal/domain/repository"
)

//go:embed seed.yaml
var defaultFixture []byte

type Fixture struct {
	User  FixtureUser   `yaml:"user"`
	Tabs  []FixtureTab  `yaml:"tabs"`
	Plans []FixturePlan `yaml:"plans"`
}

type FixtureUser struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type FixtureTab struct {
	Title   string `yaml:"title"`
	Artist  string `yaml:"artist"`
	Tuning  string `yaml:"tuning"`
	Capo    int    `yaml:"capo"`
	Content string `yaml:"content"`
}

type FixturePlan struct {
	Title             string        `yaml:"title"`
	Description       string        `yaml:"description"`
	GoalMinutesPerDay int           `yaml:"goal_minutes_per_day"`
	Items             []FixtureItem `yaml:"items"`
}

type FixtureItem struct {
	Title           string `yaml:"title"`
	Notes           string `yaml:"notes"`
	Category        string `yaml:"category"`
	DurationMinutes int    `yaml:"duration_minutes"`
	TargetBPM       *int   `yaml:"target_bpm"`
	Tab             string `yaml:"tab"` // title of a tab in the same fixture
}

// ParseFixture decodes a fixture and checks that item tab references resolve.
func ParseFixture(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if f.User.Email == "" || f.User.Password == "" {
		return nil, errors.New("fixture: user email and password are required")
	}
	titles := make(map[string]bool, len(f.Tabs))
	for _, t := range f.Tabs {
		titles[t.Title] = true
	}
	for _, p := range f.Plans {
		for _, it := range p.Items {
			if it.Tab != "" && !titles[it.Tab] {
				return nil, fmt.Errorf("fixture: item %q references unknown tab %q", it.Title, it.Tab)
			}
		}
	}
	return &f, nil
}

type Seeder struct {
	Auth     *application.AuthService
	Tabs     *application.TabService
	Practice *application.PracticeService
	Logger   *logrus.Logger
}

// SeedResult reports what Apply created. Existing content is left alone.
type SeedResult struct {
	UserID       string
	CreatedUser  bool
	TabsCreated  int
	PlansCreated int
	ItemsCreated int
}

// Apply upserts the fixture user and loads tabs and plans when the user has none yet.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (SeedResult, error) {
	var res SeedResult
	u, _, err := s.Auth.Register(ctx, application.RegisterInput{Email: f.User.Email, Password: f.User.Password, Name: f.User.Name})
	switch {
	case err == nil:
		res.CreatedUser = true
	case errors.Is(err, application.ErrEmailTaken):
		u, err = s.Auth.Authenticate(ctx, f.User.Email, f.User.Password)
		if err != nil {
			return res, fmt.Errorf("existing seed user: %w", err)
		}
	default:
		return res, fmt.Errorf("register seed user: %w", err)
	}
	res.UserID = u.ID

	tabIDs := map[string]string{}
	existingTabs, err := s.Tabs.List(ctx, u.ID, repo.TabFilter{})
	if err != nil {
		return res, err
	}
	for _, t := range existingTabs {
		tabIDs[t.Title] = t.ID
	}
	for _, ft := range f.Tabs {
		if _, ok := tabIDs[ft.Title]; ok {
			continue
		}
		t, err := s.Tabs.Create(ctx, u.ID, application.TabInput{
			Title:   ft.Title,
			Artist:  ft.Artist,
			Tuning:  ft.Tuning,
			Capo:    ft.Capo,
			Content: ft.Content,
			Message: "Seeded",
		})
		if err != nil {
			return res, fmt.Errorf("seed tab %q: %w", ft.Title, err)
		}
		tabIDs[t.Title] = t.ID
		res.TabsCreated++
	}

	plans, err := s.Practice.ListPlans(ctx, u.ID, nil)
	if err != nil {
		return res, err
	}
	havePlan := make(map[string]bool, len(plans))
	for _, p := range plans {
		havePlan[p.Title] = true
	}
	for _, fp := range f.Plans {
		if havePlan[fp.Title] {
			continue
		}
		p, err := s.Practice.CreatePlan(ctx, u.ID, application.PlanInput{
			Title:             fp.Title,
			Description:       fp.Description,
			GoalMinutesPerDay: fp.GoalMinutesPerDay,
		})
		if err != nil {
			return res, fmt.Errorf("seed plan %q: %w", fp.Title, err)
		}
		res.PlansCreated++
		for _, fi := range fp.Items {
			in := application.ItemInput{
				PlanID:          p.ID,
				Title:           fi.Title,
				Notes:           fi.Notes,
				Category:        entity.ItemCategory(fi.Category),
				DurationMinutes: fi.DurationMinutes,
				TargetBPM:       fi.TargetBPM,
			}
			if id, ok := tabIDs[fi.Tab]; ok && fi.Tab != "" {
				in.TabID = &id
			}
			if _, err := s.Practice.CreateItem(ctx, u.ID, in); err != nil {
				return res, fmt.Errorf("seed item %q: %w", fi.Title, err)
			}
			res.ItemsCreated++
		}
	}

	s.Logger.WithFields(logrus.Fields{
		"user_id": res.UserID,
		"created": res.CreatedUser,
		"tabs":    res.TabsCreated,
		"plans":   res.PlansCreated,
		"items":   res.ItemsCreated,
	}).Info("seed applied")
	return res, nil
}
