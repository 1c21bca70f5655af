package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/domain/entity"
	repo "github.com/fretvault/api/internal/domain/repository"
)

type TabService struct {
	Repo   repo.TabRepository
	Search SearchIndex // optional
	Index  string
	Logger *logrus.Logger
}

func NewTabService(r repo.TabRepository, search SearchIndex, index string, logger *logrus.Logger) *TabService {
	return &TabService{Repo: r, Search: search, Index: index, Logger: logger}
}

type TabInput struct {
	Title   string
	Artist  string
	Tuning  string
	Capo    int
	Content string
	Message string
}

type TabPatch struct {
	Title   *string
	Artist  *string
	Tuning  *string
	Capo    *int
	Content *string
	Message string
}

// TabHit is a search result.
type TabHit struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Score  float64 `json:"score"`
}

func (s *TabService) owned(ctx context.Context, userID, tabID string) (*entity.Tab, error) {
	t, err := s.Repo.GetByID(ctx, tabID)
	if err != nil {
		return nil, repoErr("get tab", err)
	}
	if t.UserID != userID {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *TabService) List(ctx context.Context, userID string, f repo.TabFilter) ([]entity.Tab, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.Artist = strings.TrimSpace(f.Artist)
	out, err := s.Repo.ListByUser(ctx, userID, f)
	return out, repoErr("list tabs", err)
}

// Create stores version 1 of the tab together with its first revision.
func (s *TabService) Create(ctx context.Context, userID string, in TabInput) (*entity.Tab, error) {
	t := &entity.Tab{
		UserID:  userID,
		Title:   strings.TrimSpace(in.Title),
		Artist:  strings.TrimSpace(in.Artist),
		Tuning:  strings.TrimSpace(in.Tuning),
		Capo:    in.Capo,
		Content: in.Content,
		Version: 1,
	}
	if t.Title == "" {
		return nil, invalid("title", "is required")
	}
	if t.Tuning == "" {
		t.Tuning = entity.DefaultTuning
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		msg = "Initial version"
	}
	if err := s.Repo.Create(ctx, t, t.Snapshot(msg, userID)); err != nil {
		return nil, repoErr("create tab", err)
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TabService) Get(ctx context.Context, userID, tabID string) (*entity.Tab, error) {
	return s.owned(ctx, userID, tabID)
}

// Update applies the patch. An empty or no-op patch returns the tab unchanged;
// otherwise the version is bumped and a revision is appended.
func (s *TabService) Update(ctx context.Context, userID, tabID string, in TabPatch) (*entity.Tab, error) {
	t, err := s.owned(ctx, userID, tabID)
	if err != nil {
		return nil, err
	}
	next := *t
	if in.Title != nil {
		next.Title = strings.TrimSpace(*in.Title)
		if next.Title == "" {
			return nil, invalid("title", "is required")
		}
	}
	if in.Artist != nil {
		next.Artist = strings.TrimSpace(*in.Artist)
	}
	if in.Tuning != nil {
		next.Tuning = strings.TrimSpace(*in.Tuning)
		if next.Tuning == "" {
			next.Tuning = entity.DefaultTuning
		}
	}
	if in.Capo != nil {
		next.Capo = *in.Capo
	}
	if in.Content != nil {
		next.Content = *in.Content
	}
	if sameTabState(t, &next) {
		return t, nil
	}

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		msg = fmt.Sprintf("Version %d", t.Version+1)
	}
	return s.commit(ctx, userID, t.Version, &next, msg)
}

func sameTabState(a, b *entity.Tab) bool {
	return a.Title == b.Title && a.Artist == b.Artist && a.Tuning == b.Tuning && a.Capo == b.Capo && a.Content == b.Content
}

func (s *TabService) commit(ctx context.Context, userID string, prevVersion int, next *entity.Tab, msg string) (*entity.Tab, error) {
	next.Version = prevVersion + 1
	if err := s.Repo.Update(ctx, next, next.Snapshot(msg, userID), prevVersion); err != nil {
		return nil, repoErr("update tab", err)
	}
	s.index(ctx, next)
	return next, nil
}

// Delete removes the tab with its revisions; practice items pointing at it are unlinked.
func (s *TabService) Delete(ctx context.Context, userID, tabID string) error {
	if _, err := s.owned(ctx, userID, tabID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, tabID); err != nil {
		return repoErr("delete tab", err)
	}
	if s.Search != nil {
		if err := s.Search.Delete(ctx, s.Index, tabID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("tab_id", tabID).Warn("es delete failed")
		}
	}
	return nil
}

// Revisions lists revisions newest first, without content.
func (s *TabService) Revisions(ctx context.Context, userID, tabID string) ([]entity.TabRevision, error) {
	if _, err := s.owned(ctx, userID, tabID); err != nil {
		return nil, err
	}
	out, err := s.Repo.ListRevisions(ctx, tabID)
	if err != nil {
		return nil, repoErr("list revisions", err)
	}
	for i := range out {
		out[i].Content = ""
	}
	return out, nil
}

func (s *TabService) Revision(ctx context.Context, userID, tabID string, version int) (*entity.TabRevision, error) {
	if _, err := s.owned(ctx, userID, tabID); err != nil {
		return nil, err
	}
	rev, err := s.Repo.GetRevision(ctx, tabID, version)
	if err != nil {
		return nil, repoErr("get revision", err)
	}
	return rev, nil
}

// Restore copies an old snapshot forward as a new version.
func (s *TabService) Restore(ctx context.Context, userID, tabID string, version int) (*entity.Tab, error) {
	t, err := s.owned(ctx, userID, tabID)
	if err != nil {
		return nil, err
	}
	rev, err := s.Repo.GetRevision(ctx, tabID, version)
	if err != nil {
		return nil, repoErr("get revision", err)
	}
	next := *t
	next.Title, next.Artist, next.Tuning, next.Capo, next.Content = rev.Title, rev.Artist, rev.Tuning, rev.Capo, rev.Content
	return s.commit(ctx, userID, t.Version, &next, fmt.Sprintf("Restored from version %d", version))
}

// TabIndexMapping keeps ids as exact keywords so the owner filter matches whole UUIDs.
var TabIndexMapping = map[string]any{
	"properties": map[string]any{
		"id":         map[string]any{"type": "keyword"},
		"user_id":    map[string]any{"type": "keyword"},
		"title":      map[string]any{"type": "text"},
		"artist":     map[string]any{"type": "text"},
		"tuning":     map[string]any{"type": "keyword"},
		"content":    map[string]any{"type": "text"},
		"version":    map[string]any{"type": "integer"},
		"updated_at": map[string]any{"type": "date"},
	},
}

// SearchTabs runs a full-text query over the caller's tabs. Without an index it returns no hits.
func (s *TabService) SearchTabs(ctx context.Context, userID, q string, size int) ([]TabHit, error) {
	q = strings.TrimSpace(q)
	if s.Search == nil || q == "" {
		return []TabHit{}, nil
	}
	query := map[string]any{
		"bool": map[string]any{
			"must": map[string]any{
				"multi_match": map[string]any{
					"query":  q,
					"fields": []string{"title^3", "artist^2", "content"},
				},
			},
			"filter": map[string]any{
				"term": map[string]any{"user_id": userID},
			},
		},
	}
	hits, err := s.Search.Search(ctx, s.Index, query, clampSize(size, 10, 50))
	if err != nil {
		return nil, fmt.Errorf("search tabs: %w", err)
	}
	out := make([]TabHit, 0, len(hits))
	for _, h := range hits {
		title, _ := h.Source["title"].(string)
		artist, _ := h.Source["artist"].(string)
		out = append(out, TabHit{ID: h.ID, Title: title, Artist: artist, Score: h.Score})
	}
	return out, nil
}

func (s *TabService) index(ctx context.Context, t *entity.Tab) {
	if s.Search == nil {
		return
	}
	doc := map[string]any{
		"id":         t.ID,
		"user_id":    t.UserID,
		"title":      t.Title,
		"artist":     t.Artist,
		"tuning":     t.Tuning,
		"content":    t.Content,
		"version":    t.Version,
		"updated_at": t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := s.Search.Index(ctx, s.Index, t.ID, doc); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("tab_id", t.ID).Warn("es index failed")
	}
}
