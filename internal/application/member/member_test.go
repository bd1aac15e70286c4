package member_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application"
	memberapp "github.com/xiebiao/library/internal/application/member"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/library/internal/testutil"
	"github.com/xiebiao/library/pkg/clock"
)

func TestMemberUseCases(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := member.NewService(gormdb.NewMemberRepository(db))
	clk := clock.Clock(func() time.Time { return testutil.Date(2024, 6, 10) })

	create := memberapp.NewCreateMemberUseCase(svc, clk)
	get := memberapp.NewGetMemberUseCase(svc)
	list := memberapp.NewListMembersUseCase(svc)
	tx := gormdb.NewTxManager(db)
	update := memberapp.NewUpdateMemberUseCase(tx, svc)
	setStatus := memberapp.NewSetMemberStatusUseCase(tx, svc)

	phone := "13800000000"
	created, err := create.Execute(ctx, memberapp.CreateMemberRequest{
		Email: "Alice@Example.com", FullName: "Alice", Phone: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, "2024-06-10", created.JoinedDate)
	assert.True(t, created.IsActive)

	_, err = create.Execute(ctx, memberapp.CreateMemberRequest{Email: "alice@example.com", FullName: "Other"})
	assert.ErrorIs(t, err, member.ErrEmailDuplicate)

	_, err = create.Execute(ctx, memberapp.CreateMemberRequest{Email: "not-an-email", FullName: "Bob"})
	assert.ErrorIs(t, err, member.ErrInvalidEmail)

	_, err = create.Execute(ctx, memberapp.CreateMemberRequest{Email: "bob@example.com", FullName: "Bob"})
	require.NoError(t, err)

	name := "Alice Liddell"
	empty := ""
	updated, err := update.Execute(ctx, memberapp.UpdateMemberRequest{ID: created.ID, FullName: &name, Phone: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.FullName)
	assert.Nil(t, updated.Phone)

	disabled, err := setStatus.Execute(ctx, memberapp.SetMemberStatusRequest{ID: created.ID, IsActive: false})
	require.NoError(t, err)
	assert.False(t, disabled.IsActive)

	got, err := get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Alice Liddell", got.FullName)

	page, err := list.Execute(ctx, memberapp.ListMembersRequest{Query: "LIDDELL"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = list.Execute(ctx, memberapp.ListMembersRequest{ListRequest: application.ListRequest{Limit: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.List, 1)

	_, err = get.Execute(ctx, 999)
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}

// deactivatingRepo 在Update读出读者之后立即停用该读者
type deactivatingRepo struct {
	member.Repository
}

func (r deactivatingRepo) LockByID(ctx context.Context, id uint) (*member.Member, error) {
	m, err := r.Repository.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Repository.UpdateStatus(ctx, id, false); err != nil {
		return nil, err
	}
	return m, nil
}

func TestUpdateMember_DoesNotReactivate(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := gormdb.NewMemberRepository(db)
	clk := clock.Clock(func() time.Time { return testutil.Date(2024, 6, 10) })

	created, err := memberapp.NewCreateMemberUseCase(member.NewService(repo), clk).Execute(ctx,
		memberapp.CreateMemberRequest{Email: "dave@example.com", FullName: "Dave"})
	require.NoError(t, err)
	require.True(t, created.IsActive)

	update := memberapp.NewUpdateMemberUseCase(gormdb.NewTxManager(db), member.NewService(deactivatingRepo{repo}))
	name := "David"
	_, err = update.Execute(ctx, memberapp.UpdateMemberRequest{ID: created.ID, FullName: &name})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "David", got.FullName)
	assert.False(t, got.IsActive)
}
