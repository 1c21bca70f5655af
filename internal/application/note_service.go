package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/domain/entity"
	repo "github.com/fretvault/api/internal/domain/repository"
	"github.com/fretvault/api/pkg/notelink"
	"github.com/fretvault/api/pkg/slug"
)

const (
	LinkResolved = "resolved"
	LinkMissing  = "missing"
)

type NoteService struct {
	Notes      repo.NoteRepository
	Workspaces repo.WorkspaceRepository
	Search     SearchIndex // optional
	Index      string
	Logger     *logrus.Logger
}

func NewNoteService(notes repo.NoteRepository, workspaces repo.WorkspaceRepository, search SearchIndex, index string, logger *logrus.Logger) *NoteService {
	return &NoteService{Notes: notes, Workspaces: workspaces, Search: search, Index: index, Logger: logger}
}

type NoteInput struct {
	Title   string
	Slug    string
	Content string
}

type NotePatch struct {
	Title   *string
	Slug    *string
	Content *string
}

// LinkStatus is one outgoing internal link with its resolution.
type LinkStatus struct {
	Target string `json:"target"`
	Label  string `json:"label"`
	Status string `json:"status"`
	NoteID string `json:"note_id,omitempty"`
	Title  string `json:"title,omitempty"`
}

type NoteHit struct {
	ID    string  `json:"id"`
	Slug  string  `json:"slug"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// NoteHref is the app path of a note.
func NoteHref(workspaceID, noteSlug string) string {
	return "/workspaces/" + workspaceID + "/notes/" + noteSlug
}

// reservedNoteSlugs collide with static routes under /notes.
var reservedNoteSlugs = map[string]bool{"search": true}

func resolveSlug(raw, fallbackTitle string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		s := slug.Make(fallbackTitle)
		if s == "" {
			return "", invalid("slug", "could not be derived from the title")
		}
		if reservedNoteSlugs[s] {
			s += "-note"
		}
		return s, nil
	}
	if !slug.Valid(raw) {
		return "", invalid("slug", "must contain only lowercase letters, digits and single hyphens")
	}
	if reservedNoteSlugs[raw] {
		return "", invalid("slug", "is reserved")
	}
	return raw, nil
}

func (s *NoteService) List(ctx context.Context, userID, workspaceID string) ([]entity.NoteSummary, error) {
	if _, err := authorize(ctx, s.Workspaces, userID, workspaceID, false); err != nil {
		return nil, err
	}
	out, err := s.Notes.List(ctx, workspaceID)
	return out, repoErr("list notes", err)
}

// Create stores a note and its extracted link targets. The slug defaults to slug(title).
func (s *NoteService) Create(ctx context.Context, userID, workspaceID string, in NoteInput) (*entity.Note, error) {
	if _, err := authorize(ctx, s.Workspaces, userID, workspaceID, true); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	noteSlug, err := resolveSlug(in.Slug, title)
	if err != nil {
		return nil, err
	}
	n := &entity.Note{
		WorkspaceID: workspaceID,
		Slug:        noteSlug,
		Title:       title,
		Content:     in.Content,
		AuthorID:    userID,
	}
	if err := s.Notes.Create(ctx, n, notelink.Targets([]byte(n.Content))); err != nil {
		return nil, repoErr("create note", err)
	}
	s.index(ctx, n)
	return n, nil
}

func (s *NoteService) Get(ctx context.Context, userID, workspaceID, noteSlug string) (*entity.Note, error) {
	if _, err := authorize(ctx, s.Workspaces, userID, workspaceID, false); err != nil {
		return nil, err
	}
	n, err := s.Notes.GetBySlug(ctx, workspaceID, noteSlug)
	if err != nil {
		return nil, repoErr("get note", err)
	}
	return n, nil
}

// Update may rename the note. Links pointing at the old slug are left as they are.
func (s *NoteService) Update(ctx context.Context, userID, workspaceID, noteSlug string, in NotePatch) (*entity.Note, error) {
	if _, err := authorize(ctx, s.Workspaces, userID, workspaceID, true); err != nil {
		return nil, err
	}
	n, err := s.Notes.GetBySlug(ctx, workspaceID, noteSlug)
	if err != nil {
		return nil, repoErr("get note", err)
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, invalid("title", "is required")
		}
		n.Title = t
	}
	if in.Slug != nil {
		ns, err := resolveSlug(*in.Slug, n.Title)
		if err != nil {
			return nil, err
		}
		n.Slug = ns
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if err := s.Notes.Update(ctx, n, notelink.Targets([]byte(n.Content))); err != nil {
		return nil, repoErr("update note", err)
	}
	s.index(ctx, n)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, workspaceID, noteSlug string) error {
	if _, err := authorize(ctx, s.Workspaces, userID, workspaceID, true); err != nil {
		return err
	}
	n, err := s.Notes.GetBySlug(ctx, workspaceID, noteSlug)
	if err != nil {
		return repoErr("get note", err)
	}
	if err := s.Notes.Delete(ctx, n.ID); err != nil {
		return repoErr("delete note", err)
	}
	if s.Search != nil {
		if err := s.Search.Delete(ctx, s.Index, n.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("note_id", n.ID).Warn("es delete failed")
		}
	}
	return nil
}

// resolver looks up every target of src once and returns a notelink.Resolver over the result.
func (s *NoteService) resolver(ctx context.Context, workspaceID string, targets []string) (notelink.Resolver, map[string]entity.NoteSummary, error) {
	found, err := s.Notes.FindBySlugs(ctx, workspaceID, targets)
	if err != nil {
		return nil, nil, repoErr("resolve links", err)
	}
	return func(target string) (string, bool) {
		if _, ok := found[target]; ok {
			return NoteHref(workspaceID, target), true
		}
		return "", false
	}, found, nil
}

// Links lists each distinct outgoing link once, in document order.
func (s *NoteService) Links(ctx context.Context, userID, workspaceID, noteSlug string) ([]LinkStatus, error) {
	n, err := s.Get(ctx, userID, workspaceID, noteSlug)
	if err != nil {
		return nil, err
	}
	links := notelink.Extract([]byte(n.Content))
	targets := notelink.Targets([]byte(n.Content))
	_, found, err := s.resolver(ctx, workspaceID, targets)
	if err != nil {
		return nil, err
	}

	out := make([]LinkStatus, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, l := range links {
		if seen[l.Target] {
			continue
		}
		seen[l.Target] = true
		ls := LinkStatus{Target: l.Target, Label: l.Label, Status: LinkMissing}
		if sum, ok := found[l.Target]; ok {
			ls.Status = LinkResolved
			ls.NoteID = sum.ID
			ls.Title = sum.Title
		}
		out = append(out, ls)
	}
	return out, nil
}

func (s *NoteService) Backlinks(ctx context.Context, userID, workspaceID, noteSlug string) ([]entity.NoteSummary, error) {
	if _, err := authorize(ctx, s.Workspaces, userID, workspaceID, false); err != nil {
		return nil, err
	}
	out, err := s.Notes.Backlinks(ctx, workspaceID, noteSlug)
	return out, repoErr("backlinks", err)
}

// Render returns the note body as HTML with internal links resolved.
func (s *NoteService) Render(ctx context.Context, userID, workspaceID, noteSlug string) (*entity.Note, []byte, error) {
	n, err := s.Get(ctx, userID, workspaceID, noteSlug)
	if err != nil {
		return nil, nil, err
	}
	src := []byte(n.Content)
	resolve, _, err := s.resolver(ctx, workspaceID, notelink.Targets(src))
	if err != nil {
		return nil, nil, err
	}
	html, err := notelink.Render(src, resolve)
	if err != nil {
		return nil, nil, fmt.Errorf("render note: %w", err)
	}
	return n, html, nil
}

// Markdown exports the note with internal links turned into plain markdown links.
func (s *NoteService) Markdown(ctx context.Context, userID, workspaceID, noteSlug string) (*entity.Note, []byte, error) {
	n, err := s.Get(ctx, userID, workspaceID, noteSlug)
	if err != nil {
		return nil, nil, err
	}
	src := []byte(n.Content)
	resolve, _, err := s.resolver(ctx, workspaceID, notelink.Targets(src))
	if err != nil {
		return nil, nil, err
	}
	return n, notelink.ToMarkdown(src, resolve), nil
}

// NoteIndexMapping keeps ids and slugs as exact keywords.
var NoteIndexMapping = map[string]any{
	"properties": map[string]any{
		"id":           map[string]any{"type": "keyword"},
		"workspace_id": map[string]any{"type": "keyword"},
		"slug":         map[string]any{"type": "keyword"},
		"title":        map[string]any{"type": "text"},
		"content":      map[string]any{"type": "text"},
		"updated_at":   map[string]any{"type": "date"},
	},
}

// SearchNotes runs a full-text query inside one workspace. Without an index it returns no hits.
func (s *NoteService) SearchNotes(ctx context.Context, userID, workspaceID, q string, size int) ([]NoteHit, error) {
	if _, err := authorize(ctx, s.Workspaces, userID, workspaceID, false); err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if s.Search == nil || q == "" {
		return []NoteHit{}, nil
	}
	query := map[string]any{
		"bool": map[string]any{
			"must": map[string]any{
				"multi_match": map[string]any{
					"query":  q,
					"fields": []string{"title^3", "content"},
				},
			},
			"filter": map[string]any{
				"term": map[string]any{"workspace_id": workspaceID},
			},
		},
	}
	hits, err := s.Search.Search(ctx, s.Index, query, clampSize(size, 10, 50))
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	out := make([]NoteHit, 0, len(hits))
	for _, h := range hits {
		title, _ := h.Source["title"].(string)
		sl, _ := h.Source["slug"].(string)
		out = append(out, NoteHit{ID: h.ID, Slug: sl, Title: title, Score: h.Score})
	}
	return out, nil
}

func (s *NoteService) index(ctx context.Context, n *entity.Note) {
	if s.Search == nil {
		return
	}
	doc := map[string]any{
		"id":           n.ID,
		"workspace_id": n.WorkspaceID,
		"slug":         n.Slug,
		"title":        n.Title,
		"content":      n.Content,
		"updated_at":   n.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := s.Search.Index(ctx, s.Index, n.ID, doc); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("note_id", n.ID).Warn("es index failed")
	}
}
