package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/testsupport/memrepo"
)

type workspaceFixture struct {
	svc              *WorkspaceService
	store            *memrepo.Store
	pub              *fakePublisher
	owner, bob, carl *entity.User
}

func newWorkspaceFixture(t *testing.T) workspaceFixture {
	t.Helper()
	store := memrepo.New()
	pub := &fakePublisher{}
	return workspaceFixture{
		svc:   NewWorkspaceService(store.Workspaces(), store.Users(), pub, testConfig(), nil),
		store: store,
		pub:   pub,
		owner: seedUser(t, store, "ana@example.com", "Ana"),
		bob:   seedUser(t, store, "bob@example.com", "Bob"),
		carl:  seedUser(t, store, "carl@example.com", "Carl"),
	}
}

func TestWorkspaceService_CreateSlugSuffix(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	w1, err := f.svc.Create(ctx, f.owner.ID, "The Band", "")
	require.NoError(t, err)
	assert.Equal(t, "the-band", w1.Slug)
	assert.Equal(t, entity.WorkspaceBand, w1.Kind)

	w2, err := f.svc.Create(ctx, f.bob.ID, "The  Band!", entity.WorkspaceBand)
	require.NoError(t, err)
	assert.Equal(t, "the-band-2", w2.Slug)

	w3, err := f.svc.Create(ctx, f.bob.ID, "!!!", entity.WorkspaceBand)
	require.NoError(t, err)
	assert.Equal(t, "workspace", w3.Slug)
}

func TestWorkspaceService_MembersOnly(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	w, err := f.svc.Create(ctx, f.owner.ID, "Band", "")
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.bob.ID, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	m, err := f.svc.AddMember(ctx, f.owner.ID, w.ID, " BOB@example.com", entity.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, m.UserID)

	require.Len(t, f.pub.jobs, 1)
	job := f.pub.jobs[0]
	assert.Equal(t, "workspace_invite", job.Template)
	assert.Equal(t, "bob@example.com", job.To)
	assert.Equal(t, "Ana", job.Data["InviterName"])
	assert.Equal(t, "https://app.test/workspaces/"+w.ID, job.Data["WorkspaceURL"])

	d, err := f.svc.Get(ctx, f.bob.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEditor, d.Role)
	assert.Len(t, d.Members, 2)

	_, err = f.svc.AddMember(ctx, f.owner.ID, w.ID, "bob@example.com", entity.RoleViewer)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.svc.AddMember(ctx, f.bob.ID, w.ID, "carl@example.com", entity.RoleViewer)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.AddMember(ctx, f.owner.ID, w.ID, "nobody@example.com", entity.RoleViewer)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.AddMember(ctx, f.owner.ID, w.ID, "carl@example.com", entity.RoleOwner)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorkspaceService_RemoveMember(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	w, err := f.svc.Create(ctx, f.owner.ID, "Band", "")
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, f.owner.ID, w.ID, "bob@example.com", entity.RoleViewer)
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, f.owner.ID, w.ID, "carl@example.com", entity.RoleViewer)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.RemoveMember(ctx, f.bob.ID, w.ID, f.carl.ID), ErrForbidden)
	assert.ErrorIs(t, f.svc.RemoveMember(ctx, f.owner.ID, w.ID, f.owner.ID), ErrInvalidInput)

	require.NoError(t, f.svc.RemoveMember(ctx, f.bob.ID, w.ID, f.bob.ID), "members may leave")
	require.NoError(t, f.svc.RemoveMember(ctx, f.owner.ID, w.ID, f.carl.ID))

	list, err := f.svc.List(ctx, f.carl.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, f.svc.RemoveMember(ctx, f.owner.ID, w.ID, f.carl.ID), ErrNotFound)
}
