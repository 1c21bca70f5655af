// Package memrepo provides in-memory implementations of the repository
// interfaces for service and handler tests.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/domain/repository"
)

// Store holds every table. Repositories obtained from the same Store see
// each other's rows, so joins and cascades behave like the database.
type Store struct {
	mu sync.Mutex

	users      map[string]*entity.User
	workspaces map[string]*entity.Workspace
	members    map[string]map[string]entity.WorkspaceMember // workspace -> user -> member
	plans      map[string]*entity.PracticePlan
	items      map[string]*entity.PracticeItem
	logs       []entity.PracticeLog
	tabs       map[string]*entity.Tab
	revisions  map[string][]entity.TabRevision
	notes      map[string]*entity.Note
	links      map[string][]string // note id -> target slugs
	files      map[string]*entity.StoredFile
}

func New() *Store {
	return &Store{
		users:      map[string]*entity.User{},
		workspaces: map[string]*entity.Workspace{},
		members:    map[string]map[string]entity.WorkspaceMember{},
		plans:      map[string]*entity.PracticePlan{},
		items:      map[string]*entity.PracticeItem{},
		tabs:       map[string]*entity.Tab{},
		revisions:  map[string][]entity.TabRevision{},
		notes:      map[string]*entity.Note{},
		links:      map[string][]string{},
		files:      map[string]*entity.StoredFile{},
	}
}

func (s *Store) Users() *UserRepo           { return &UserRepo{s} }
func (s *Store) Workspaces() *WorkspaceRepo { return &WorkspaceRepo{s} }
func (s *Store) Plans() *PlanRepo           { return &PlanRepo{s} }
func (s *Store) Items() *ItemRepo           { return &ItemRepo{s} }
func (s *Store) Tabs() *TabRepo             { return &TabRepo{s} }
func (s *Store) Notes() *NoteRepo           { return &NoteRepo{s} }
func (s *Store) Files() *FileRepo           { return &FileRepo{s} }
func (s *Store) NoteLinks(noteID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.links[noteID]...)
}

func now() time.Time { return time.Now().UTC() }

// ---- users ----

type UserRepo struct{ s *Store }

func (s *Store) emailTaken(email string) bool {
	for _, x := range s.users {
		if x.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) insertUser(u *entity.User) {
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now(), now()
	cp := *u
	s.users[u.ID] = &cp
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.emailTaken(u.Email) {
		return repository.ErrConflict
	}
	r.s.insertUser(u)
	return nil
}

// CreateWithWorkspace stores nothing when either the email or the slug is taken.
func (r *UserRepo) CreateWithWorkspace(_ context.Context, u *entity.User, w *entity.Workspace) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.emailTaken(u.Email) || r.s.slugTaken(w.Slug) {
		return repository.ErrConflict
	}
	r.s.insertUser(u)
	w.OwnerID = u.ID
	r.s.insertWorkspace(w)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = now()
	cp := *u
	cp.Password = cur.Password
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = now()
	return nil
}

// ---- workspaces ----

type WorkspaceRepo struct{ s *Store }

func (s *Store) slugTaken(slug string) bool {
	for _, x := range s.workspaces {
		if x.Slug == slug {
			return true
		}
	}
	return false
}

func (s *Store) insertWorkspace(w *entity.Workspace) {
	w.ID = uuid.NewString()
	w.CreatedAt, w.UpdatedAt = now(), now()
	cp := *w
	s.workspaces[w.ID] = &cp
	s.members[w.ID] = map[string]entity.WorkspaceMember{
		w.OwnerID: {WorkspaceID: w.ID, UserID: w.OwnerID, Role: entity.RoleOwner, CreatedAt: now()},
	}
}

func (r *WorkspaceRepo) Create(_ context.Context, w *entity.Workspace) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.slugTaken(w.Slug) {
		return repository.ErrConflict
	}
	if _, ok := r.s.users[w.OwnerID]; !ok {
		return repository.ErrNotFound
	}
	r.s.insertWorkspace(w)
	return nil
}

func (r *WorkspaceRepo) GetByID(_ context.Context, id string) (*entity.Workspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workspaces[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *WorkspaceRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.workspaces {
		if w.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *WorkspaceRepo) ListForUser(_ context.Context, userID string) ([]entity.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Membership, 0)
	for wsID, ms := range r.s.members {
		if m, ok := ms[userID]; ok {
			out = append(out, entity.Membership{Workspace: *r.s.workspaces[wsID], Role: m.Role})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Workspace.Kind != out[j].Workspace.Kind {
			return out[i].Workspace.Kind > out[j].Workspace.Kind
		}
		return out[i].Workspace.Name < out[j].Workspace.Name
	})
	return out, nil
}

func (r *WorkspaceRepo) GetRole(_ context.Context, workspaceID, userID string) (entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[workspaceID][userID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return m.Role, nil
}

func (r *WorkspaceRepo) AddMember(_ context.Context, m *entity.WorkspaceMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ms, ok := r.s.members[m.WorkspaceID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.users[m.UserID]; !ok {
		return repository.ErrNotFound
	}
	if _, dup := ms[m.UserID]; dup {
		return repository.ErrConflict
	}
	m.CreatedAt = now()
	ms[m.UserID] = *m
	return nil
}

func (r *WorkspaceRepo) RemoveMember(_ context.Context, workspaceID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[workspaceID][userID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.members[workspaceID], userID)
	return nil
}

func (r *WorkspaceRepo) ListMembers(_ context.Context, workspaceID string) ([]entity.WorkspaceMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.WorkspaceMember, 0)
	for _, m := range r.s.members[workspaceID] {
		if u, ok := r.s.users[m.UserID]; ok {
			m.UserName, m.UserEmail = u.Name, u.Email
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- practice ----

type PlanRepo struct{ s *Store }

func (r *PlanRepo) Create(_ context.Context, p *entity.PracticePlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now(), now()
	cp := *p
	cp.Items = nil
	r.s.plans[p.ID] = &cp
	return nil
}

func (r *PlanRepo) GetByID(_ context.Context, id string) (*entity.PracticePlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PlanRepo) ListByUser(_ context.Context, userID string, archived *bool) ([]entity.PracticePlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.PracticePlan, 0)
	for _, p := range r.s.plans {
		if p.UserID != userID || (archived != nil && p.IsArchived != *archived) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *PlanRepo) Update(_ context.Context, p *entity.PracticePlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = now()
	cp := *p
	cp.Items = nil
	r.s.plans[p.ID] = &cp
	return nil
}

func (r *PlanRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.plans, id)
	for itemID, it := range r.s.items {
		if it.PlanID == id {
			r.s.deleteItemLocked(itemID)
		}
	}
	return nil
}

type ItemRepo struct{ s *Store }

func (s *Store) deleteItemLocked(id string) {
	delete(s.items, id)
	kept := s.logs[:0]
	for _, l := range s.logs {
		if l.ItemID != id {
			kept = append(kept, l)
		}
	}
	s.logs = kept
}

func (s *Store) planItemsLocked(planID string) []*entity.PracticeItem {
	var out []*entity.PracticeItem
	for _, it := range s.items {
		if it.PlanID == planID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (r *ItemRepo) Create(_ context.Context, it *entity.PracticeItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[it.PlanID]; !ok {
		return repository.ErrNotFound
	}
	it.ID = uuid.NewString()
	it.Position = len(r.s.planItemsLocked(it.PlanID))
	it.CreatedAt, it.UpdatedAt = now(), now()
	cp := *it
	r.s.items[it.ID] = &cp
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.PracticeItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *ItemRepo) ListByPlan(_ context.Context, planID string) ([]entity.PracticeItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.PracticeItem, 0)
	for _, it := range r.s.planItemsLocked(planID) {
		out = append(out, *it)
	}
	return out, nil
}

func (r *ItemRepo) Update(_ context.Context, it *entity.PracticeItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[it.ID]
	if !ok {
		return repository.ErrNotFound
	}
	it.UpdatedAt = now()
	cp := *it
	cp.Position = cur.Position
	r.s.items[it.ID] = &cp
	return nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	planID, pos := it.PlanID, it.Position
	r.s.deleteItemLocked(id)
	for _, other := range r.s.planItemsLocked(planID) {
		if other.Position > pos {
			other.Position--
		}
	}
	return nil
}

func (r *ItemRepo) Reorder(_ context.Context, planID string, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[planID]; !ok {
		return repository.ErrNotFound
	}
	for i, id := range ids {
		if it, ok := r.s.items[id]; ok && it.PlanID == planID {
			it.Position = i
			it.UpdatedAt = now()
		}
	}
	r.s.plans[planID].UpdatedAt = now()
	return nil
}

func (r *ItemRepo) AddLog(_ context.Context, l *entity.PracticeLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[l.ItemID]; !ok {
		return repository.ErrNotFound
	}
	l.ID = uuid.NewString()
	l.CreatedAt = now()
	r.s.logs = append(r.s.logs, *l)
	return nil
}

func (r *ItemRepo) ListLogs(_ context.Context, itemID string) ([]entity.PracticeLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.PracticeLog, 0)
	for _, l := range r.s.logs {
		if l.ItemID == itemID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PracticedAt.After(out[j].PracticedAt) })
	return out, nil
}

func (r *ItemRepo) ListPlanLogsSince(_ context.Context, planID string, since time.Time) ([]entity.PracticeLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.PracticeLog, 0)
	for _, l := range r.s.logs {
		it, ok := r.s.items[l.ItemID]
		if ok && it.PlanID == planID && !l.PracticedAt.Before(since) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PracticedAt.Before(out[j].PracticedAt) })
	return out, nil
}

// ---- tabs ----

type TabRepo struct{ s *Store }

func (r *TabRepo) Create(_ context.Context, t *entity.Tab, rev *entity.TabRevision) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now(), now()
	cp := *t
	r.s.tabs[t.ID] = &cp
	rev.TabID = t.ID
	r.s.appendRevisionLocked(rev)
	return nil
}

func (s *Store) appendRevisionLocked(rev *entity.TabRevision) {
	rev.ID = uuid.NewString()
	rev.CreatedAt = now()
	s.revisions[rev.TabID] = append(s.revisions[rev.TabID], *rev)
}

func (r *TabRepo) GetByID(_ context.Context, id string) (*entity.Tab, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tabs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TabRepo) ListByUser(_ context.Context, userID string, f repository.TabFilter) ([]entity.Tab, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(f.Query)
	out := make([]entity.Tab, 0)
	for _, t := range r.s.tabs {
		if t.UserID != userID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Artist), q) {
			continue
		}
		if f.Artist != "" && !strings.EqualFold(t.Artist, f.Artist) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *TabRepo) Update(_ context.Context, t *entity.Tab, rev *entity.TabRevision, prevVersion int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.tabs[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != prevVersion {
		return repository.ErrConflict
	}
	t.UpdatedAt = now()
	cp := *t
	r.s.tabs[t.ID] = &cp
	rev.TabID = t.ID
	r.s.appendRevisionLocked(rev)
	return nil
}

func (r *TabRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tabs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tabs, id)
	delete(r.s.revisions, id)
	for _, it := range r.s.items {
		if it.TabID != nil && *it.TabID == id {
			it.TabID = nil
		}
	}
	return nil
}

func (r *TabRepo) ListRevisions(_ context.Context, tabID string) ([]entity.TabRevision, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	revs := r.s.revisions[tabID]
	out := make([]entity.TabRevision, 0, len(revs))
	for i := len(revs) - 1; i >= 0; i-- {
		rev := revs[i]
		rev.Content = ""
		out = append(out, rev)
	}
	return out, nil
}

func (r *TabRepo) GetRevision(_ context.Context, tabID string, version int) (*entity.TabRevision, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rev := range r.s.revisions[tabID] {
		if rev.Version == version {
			cp := rev
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ---- notes ----

type NoteRepo struct{ s *Store }

func (s *Store) noteSlugTakenLocked(workspaceID, slug, exceptID string) bool {
	for _, n := range s.notes {
		if n.WorkspaceID == workspaceID && n.Slug == slug && n.ID != exceptID {
			return true
		}
	}
	return false
}

func dedupe(links []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(links))
	for _, l := range links {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func (r *NoteRepo) Create(_ context.Context, n *entity.Note, links []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workspaces[n.WorkspaceID]; !ok {
		return repository.ErrNotFound
	}
	if r.s.noteSlugTakenLocked(n.WorkspaceID, n.Slug, "") {
		return repository.ErrConflict
	}
	n.ID = uuid.NewString()
	n.CreatedAt, n.UpdatedAt = now(), now()
	cp := *n
	r.s.notes[n.ID] = &cp
	r.s.links[n.ID] = dedupe(links)
	return nil
}

func (r *NoteRepo) GetBySlug(_ context.Context, workspaceID, slug string) (*entity.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notes {
		if n.WorkspaceID == workspaceID && n.Slug == slug {
			cp := *n
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func summary(n *entity.Note) entity.NoteSummary {
	return entity.NoteSummary{ID: n.ID, Slug: n.Slug, Title: n.Title, UpdatedAt: n.UpdatedAt}
}

func sortByTitle(out []entity.NoteSummary) {
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
}

func (r *NoteRepo) List(_ context.Context, workspaceID string) ([]entity.NoteSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.NoteSummary, 0)
	for _, n := range r.s.notes {
		if n.WorkspaceID == workspaceID {
			out = append(out, summary(n))
		}
	}
	sortByTitle(out)
	return out, nil
}

func (r *NoteRepo) Update(_ context.Context, n *entity.Note, links []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notes[n.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.s.noteSlugTakenLocked(n.WorkspaceID, n.Slug, n.ID) {
		return repository.ErrConflict
	}
	n.UpdatedAt = now()
	cp := *n
	r.s.notes[n.ID] = &cp
	r.s.links[n.ID] = dedupe(links)
	return nil
}

func (r *NoteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.notes, id)
	delete(r.s.links, id)
	return nil
}

func (r *NoteRepo) FindBySlugs(_ context.Context, workspaceID string, slugs []string) (map[string]entity.NoteSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[string]bool{}
	for _, s := range slugs {
		want[s] = true
	}
	out := make(map[string]entity.NoteSummary, len(slugs))
	for _, n := range r.s.notes {
		if n.WorkspaceID == workspaceID && want[n.Slug] {
			out[n.Slug] = summary(n)
		}
	}
	return out, nil
}

func (r *NoteRepo) Backlinks(_ context.Context, workspaceID, slug string) ([]entity.NoteSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.NoteSummary, 0)
	for id, targets := range r.s.links {
		n := r.s.notes[id]
		if n == nil || n.WorkspaceID != workspaceID {
			continue
		}
		for _, t := range targets {
			if t == slug {
				out = append(out, summary(n))
				break
			}
		}
	}
	sortByTitle(out)
	return out, nil
}

// ---- files ----

type FileRepo struct{ s *Store }

func (r *FileRepo) Create(_ context.Context, f *entity.StoredFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f.ID = uuid.NewString()
	f.CreatedAt = now()
	cp := *f
	r.s.files[f.ID] = &cp
	return nil
}

func (r *FileRepo) GetByID(_ context.Context, id string) (*entity.StoredFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *FileRepo) ListByUser(_ context.Context, userID string) ([]entity.StoredFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.StoredFile, 0)
	for _, f := range r.s.files {
		if f.UserID == userID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *FileRepo) MarkUploaded(_ context.Context, id string, size int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.files[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.Status = entity.FileUploaded
	f.SizeBytes = size
	f.UploadedAt = &at
	return nil
}

func (r *FileRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.files[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.files, id)
	return nil
}

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.WorkspaceRepository    = (*WorkspaceRepo)(nil)
	_ repository.PracticePlanRepository = (*PlanRepo)(nil)
	_ repository.PracticeItemRepository = (*ItemRepo)(nil)
	_ repository.TabRepository          = (*TabRepo)(nil)
	_ repository.NoteRepository         = (*NoteRepo)(nil)
	_ repository.FileRepository         = (*FileRepo)(nil)
)
