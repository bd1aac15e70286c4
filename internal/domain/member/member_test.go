package member

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	Repository
	members map[uint]*Member
	nextID  uint
}

func newMemRepo() *memRepo {
	return &memRepo{members: map[uint]*Member{}}
}

func (r *memRepo) Create(_ context.Context, m *Member) error {
	for _, existing := range r.members {
		if existing.Email == m.Email {
			return ErrEmailDuplicate
		}
	}
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memRepo) LockByID(ctx context.Context, id uint) (*Member, error) {
	return r.FindByID(ctx, id)
}

func (r *memRepo) UpdateProfile(_ context.Context, m *Member) error {
	stored, ok := r.members[m.ID]
	if !ok {
		return ErrMemberNotFound
	}
	stored.FullName = m.FullName
	stored.Phone = m.Phone
	return nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id uint, active bool) error {
	stored, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	stored.IsActive = active
	return nil
}

// interleavedRepo 在读出读者之后、写回之前插入一次停用
type interleavedRepo struct {
	*memRepo
	once bool
}

func (r *interleavedRepo) LockByID(ctx context.Context, id uint) (*Member, error) {
	m, err := r.memRepo.LockByID(ctx, id)
	if err == nil && !r.once {
		r.once = true
		_ = r.memRepo.UpdateStatus(ctx, id, false)
	}
	return m, err
}

func TestService_Register(t *testing.T) {
	svc := NewService(newMemRepo())
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	m, err := svc.Register(context.Background(), RegisterParams{
		Email: " Alice@Example.com ", FullName: "Alice", Today: today,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", m.Email)
	assert.True(t, m.IsActive)
	assert.Equal(t, today, m.JoinedDate)

	_, err = svc.Register(context.Background(), RegisterParams{Email: "alice@example.com", FullName: "A2", Today: today})
	assert.ErrorIs(t, err, ErrEmailDuplicate)

	_, err = svc.Register(context.Background(), RegisterParams{Email: "not-an-email", FullName: "B", Today: today})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(context.Background(), RegisterParams{Email: "b@example.com", FullName: "  ", Today: today})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestService_UpdateAndSetActive(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	m, err := svc.Register(ctx, RegisterParams{Email: "bob@example.com", FullName: "Bob", Today: time.Now()})
	require.NoError(t, err)

	name, phone := "Robert", "13800000000"
	updated, err := svc.Update(ctx, m.ID, UpdateParams{FullName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.FullName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	empty := ""
	updated, err = svc.Update(ctx, m.ID, UpdateParams{Phone: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)
	assert.Equal(t, "Robert", updated.FullName)

	inactive, err := svc.SetActive(ctx, m.ID, false)
	require.NoError(t, err)
	assert.False(t, inactive.CanBorrow())

	_, err = svc.SetActive(ctx, 99, true)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestService_UpdateKeepsConcurrentDeactivation(t *testing.T) {
	base := newMemRepo()
	ctx := context.Background()
	m, err := NewService(base).Register(ctx, RegisterParams{Email: "carol@example.com", FullName: "Carol", Today: time.Now()})
	require.NoError(t, err)

	svc := NewService(&interleavedRepo{memRepo: base})
	name := "Caroline"
	_, err = svc.Update(ctx, m.ID, UpdateParams{FullName: &name})
	require.NoError(t, err)

	stored, err := base.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caroline", stored.FullName)
	assert.False(t, stored.IsActive)
}
