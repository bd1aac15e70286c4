package loan_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	loanapp "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/library/internal/testutil"
	"github.com/xiebiao/library/pkg/clock"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.Name
	}
	return names
}

type env struct {
	now     time.Time
	db      *gorm.DB
	tx      *gormdb.TxManager
	books   book.Repository
	members member.Repository
	loans   loan.Repository
	pub     *recordingPublisher

	borrow *loanapp.BorrowUseCase
	ret    *loanapp.ReturnUseCase
	list   *loanapp.ListLoansUseCase
	access *loanapp.CheckAccessUseCase
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t)
	e := &env{
		now:     testutil.Date(2024, 6, 10),
		db:      db,
		tx:      gormdb.NewTxManager(db),
		books:   gormdb.NewBookRepository(db),
		members: gormdb.NewMemberRepository(db),
		loans:   gormdb.NewLoanRepository(db),
		pub:     &recordingPublisher{},
	}
	clk := clock.Clock(func() time.Time { return e.now })
	tx := e.tx
	accountant := inventory.NewAccountant(gormdb.NewInventoryStore(db))
	bookSvc := book.NewService(e.books, nil)
	policy := loan.DefaultPolicy()

	e.borrow = loanapp.NewBorrowUseCase(tx, e.books, e.members, e.loans, accountant, bookSvc, e.pub, policy, clk)
	e.ret = loanapp.NewReturnUseCase(tx, e.loans, accountant, bookSvc, e.pub, policy, clk)
	e.list = loanapp.NewListLoansUseCase(e.loans, clk)
	e.access = loanapp.NewCheckAccessUseCase(e.loans)
	return e
}

func (e *env) book(t *testing.T, isbn string, copies int) *book.Book {
	t.Helper()
	b := book.NewBook("Book "+isbn, "Author", isbn, copies)
	require.NoError(t, e.books.Create(context.Background(), b))
	return b
}

func (e *env) member(t *testing.T, email string, active bool) *member.Member {
	t.Helper()
	m := member.NewMember(email, "Reader "+email, nil, e.now)
	m.IsActive = active
	require.NoError(t, e.members.Create(context.Background(), m))
	return m
}

func (e *env) available(t *testing.T, id uint) int {
	t.Helper()
	b, err := e.books.FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.AvailableCopies
}

// assertConserved 可借数 + 在借数 = 总册数
func (e *env) assertConserved(t *testing.T, id uint) {
	t.Helper()
	ctx := context.Background()
	b, err := e.books.FindByID(ctx, id)
	require.NoError(t, err)
	active, err := e.loans.CountActiveByBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, b.TotalCopies, b.AvailableCopies+int(active))
	assert.GreaterOrEqual(t, b.AvailableCopies, 0)
	assert.LessOrEqual(t, b.AvailableCopies, b.TotalCopies)
}

func days(n int) *int { return &n }

func TestBorrow_ThenOutOfStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "9780132350884", 1)
	m1 := e.member(t, "a@example.com", true)
	m2 := e.member(t, "b@example.com", true)

	resp, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m1.ID, BookID: b.ID, Days: days(14)})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Equal(t, "2024-06-10", resp.LoanDate)
	assert.Equal(t, "2024-06-24", resp.DueDate)
	assert.Nil(t, resp.ReturnDate)
	assert.False(t, resp.IsOverdue)
	require.NotNil(t, resp.Book)
	assert.Equal(t, 0, resp.Book.AvailableCopies)
	require.NotNil(t, resp.Member)
	assert.Equal(t, m1.Email, resp.Member.Email)
	assert.Empty(t, resp.Fines)
	assert.Equal(t, 0, e.available(t, b.ID))

	_, err = e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m2.ID, BookID: b.ID, Days: days(14)})
	assert.ErrorIs(t, err, inventory.ErrOutOfStock)

	e.assertConserved(t, b.ID)
	assert.Equal(t, []string{event.LoanBorrowed}, e.pub.names())
}

func TestBorrow_DefaultDays(t *testing.T) {
	e := newEnv(t)
	b := e.book(t, "9780132350884", 1)
	m := e.member(t, "a@example.com", true)

	resp, err := e.borrow.Execute(context.Background(), loanapp.BorrowRequest{MemberID: m.ID, BookID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-24", resp.DueDate)
}

func TestBorrow_PreconditionOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inStock := e.book(t, "9780132350884", 2)
	empty := e.book(t, "0132350882", 0)
	active := e.member(t, "a@example.com", true)
	inactive := e.member(t, "b@example.com", false)

	tests := []struct {
		name    string
		req     loanapp.BorrowRequest
		wantErr error
	}{
		{"图书不存在优先于读者不存在", loanapp.BorrowRequest{MemberID: 999, BookID: 999}, book.ErrBookNotFound},
		{"无库存优先于读者停用", loanapp.BorrowRequest{MemberID: inactive.ID, BookID: empty.ID}, inventory.ErrOutOfStock},
		{"读者不存在", loanapp.BorrowRequest{MemberID: 999, BookID: inStock.ID}, member.ErrMemberNotFound},
		{"读者停用", loanapp.BorrowRequest{MemberID: inactive.ID, BookID: inStock.ID}, member.ErrMemberInactive},
		{"借期为0", loanapp.BorrowRequest{MemberID: active.ID, BookID: inStock.ID, Days: days(0)}, loan.ErrInvalidDays},
		{"借期超过上限", loanapp.BorrowRequest{MemberID: active.ID, BookID: inStock.ID, Days: days(15)}, loan.ErrInvalidDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.borrow.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// 全部失败，库存不变
	assert.Equal(t, 2, e.available(t, inStock.ID))
	assert.Empty(t, e.pub.names())
}

func TestBorrow_LimitEnforced(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := e.member(t, "a@example.com", true)
	isbns := []string{"9780000000001", "9780000000002", "9780000000003", "9780000000004"}

	var last *book.Book
	for i, isbn := range isbns {
		last = e.book(t, isbn, 1)
		_, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: last.ID, Days: days(7)})
		if i < 3 {
			require.NoError(t, err)
			continue
		}
		assert.ErrorIs(t, err, loan.ErrLoanLimitExceeded)
	}

	active, err := e.loans.CountActiveByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, active)
	assert.Equal(t, 1, e.available(t, last.ID))
}

func TestReturn_OnTime(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "9780132350884", 1)
	m := e.member(t, "a@example.com", true)

	borrowed, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: b.ID, Days: days(14)})
	require.NoError(t, err)

	e.now = e.now.AddDate(0, 0, 3)
	resp, err := e.ret.Execute(ctx, borrowed.ID)
	require.NoError(t, err)
	assert.Equal(t, "RETURNED", resp.Status)
	require.NotNil(t, resp.ReturnDate)
	assert.Equal(t, "2024-06-13", *resp.ReturnDate)
	assert.Empty(t, resp.Fines)
	assert.Equal(t, 1, e.available(t, b.ID))
	e.assertConserved(t, b.ID)

	assert.Equal(t, []string{event.LoanBorrowed, event.LoanReturned}, e.pub.names())
}

func TestReturn_LateCreatesFine(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "9780132350884", 1)
	m := e.member(t, "a@example.com", true)

	borrowed, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: b.ID, Days: days(1)})
	require.NoError(t, err)

	// 应还日06-11，06-15归还，逾期4天
	e.now = testutil.Date(2024, 6, 15)
	resp, err := e.ret.Execute(ctx, borrowed.ID)
	require.NoError(t, err)
	assert.Equal(t, "RETURNED", resp.Status)
	assert.False(t, resp.IsOverdue)
	require.Len(t, resp.Fines, 1)
	assert.EqualValues(t, 4*5000, resp.Fines[0].Amount)
	assert.Equal(t, "PENDING", resp.Fines[0].Status)

	assert.Equal(t, []string{event.LoanBorrowed, event.LoanReturned, event.FineCreated}, e.pub.names())
}

func TestReturn_Twice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "9780132350884", 2)
	m := e.member(t, "a@example.com", true)

	borrowed, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: b.ID, Days: days(1)})
	require.NoError(t, err)

	e.now = e.now.AddDate(0, 0, 5)
	_, err = e.ret.Execute(ctx, borrowed.ID)
	require.NoError(t, err)

	_, err = e.ret.Execute(ctx, borrowed.ID)
	assert.ErrorIs(t, err, loan.ErrAlreadyReturned)

	// 第二次归还不产生罚款也不增加库存
	got, err := e.loans.FindByID(ctx, borrowed.ID)
	require.NoError(t, err)
	assert.Len(t, got.Fines, 1)
	assert.Equal(t, 2, e.available(t, b.ID))

	_, err = e.ret.Execute(ctx, 999)
	assert.ErrorIs(t, err, loan.ErrLoanNotFound)
}

func TestReturn_BookDetached(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "9780132350884", 1)
	m := e.member(t, "a@example.com", true)

	borrowed, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: b.ID, Days: days(7)})
	require.NoError(t, err)
	require.NoError(t, e.loans.DetachBook(ctx, b.ID))

	resp, err := e.ret.Execute(ctx, borrowed.ID)
	require.NoError(t, err)
	assert.Equal(t, "RETURNED", resp.Status)
	assert.Nil(t, resp.BookID)
	assert.Nil(t, resp.Book)
}

func TestListLoans_OverdueView(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b1 := e.book(t, "9780132350884", 1)
	b2 := e.book(t, "0132350882", 1)
	m := e.member(t, "a@example.com", true)

	late, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: b1.ID, Days: days(1)})
	require.NoError(t, err)
	_, err = e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: b2.ID, Days: days(14)})
	require.NoError(t, err)

	e.now = e.now.AddDate(0, 0, 3)

	all, err := e.list.Execute(ctx, loanapp.ListLoansRequest{MemberID: &m.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
	assert.Equal(t, 100, all.Limit)

	overdue, err := e.list.Execute(ctx, loanapp.ListLoansRequest{Status: "OVERDUE"})
	require.NoError(t, err)
	require.Len(t, overdue.List, 1)
	assert.Equal(t, late.ID, overdue.List[0].ID)
	assert.True(t, overdue.List[0].IsOverdue)
	assert.Equal(t, "OVERDUE", overdue.List[0].Status)

	_, err = e.list.Execute(ctx, loanapp.ListLoansRequest{Status: "LOST"})
	assert.ErrorIs(t, err, loan.ErrInvalidStatus)
}

func TestCheckAccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "9780132350884", 1)
	m := e.member(t, "a@example.com", true)

	req := loanapp.CheckAccessRequest{MemberID: m.ID, BookID: b.ID}
	resp, err := e.access.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.HasAccess)

	borrowed, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: b.ID})
	require.NoError(t, err)
	resp, err = e.access.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.HasAccess)

	_, err = e.ret.Execute(ctx, borrowed.ID)
	require.NoError(t, err)
	resp, err = e.access.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.HasAccess)
}

func TestBorrow_ConcurrentSameBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const copies, readers = 3, 10
	b := e.book(t, "9780132350884", copies)

	members := make([]*member.Member, readers)
	for i := range members {
		members[i] = e.member(t, string(rune('a'+i))+"@example.com", true)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		outOf     int
		others    []error
	)
	for _, m := range members {
		wg.Add(1)
		go func(memberID uint) {
			defer wg.Done()
			_, err := e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: memberID, BookID: b.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, inventory.ErrOutOfStock):
				outOf++
			default:
				others = append(others, err)
			}
		}(m.ID)
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, copies, succeeded)
	assert.Equal(t, readers-copies, outOf)
	assert.Equal(t, 0, e.available(t, b.ID))
	e.assertConserved(t, b.ID)
}

func TestBorrow_ConcurrentSameMember(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := e.member(t, "a@example.com", true)

	books := make([]*book.Book, 6)
	for i := range books {
		books[i] = e.book(t, "978000000000"+string(rune('0'+i)), 1)
	}

	var wg sync.WaitGroup
	for _, b := range books {
		wg.Add(1)
		go func(bookID uint) {
			defer wg.Done()
			_, _ = e.borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: bookID})
		}(b.ID)
	}
	wg.Wait()

	active, err := e.loans.CountActiveByMember(ctx, m.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, active)
	for _, b := range books {
		e.assertConserved(t, b.ID)
	}
}

// unreadableLoans 写入正常，提交后的重新查询总是失败
type unreadableLoans struct {
	loan.Repository
}

func (unreadableLoans) FindByID(context.Context, uint) (*loan.Loan, error) {
	return nil, errors.New("connection reset")
}

func TestBorrowAndReturn_ReloadFailureAfterCommit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "9780132350884", 2)
	m := e.member(t, "a@example.com", true)

	loans := unreadableLoans{e.loans}
	clk := clock.Clock(func() time.Time { return e.now })
	accountant := inventory.NewAccountant(gormdb.NewInventoryStore(e.db))
	bookSvc := book.NewService(e.books, nil)
	borrow := loanapp.NewBorrowUseCase(e.tx, e.books, e.members, loans, accountant, bookSvc, e.pub, loan.DefaultPolicy(), clk)
	ret := loanapp.NewReturnUseCase(e.tx, loans, accountant, bookSvc, e.pub, loan.DefaultPolicy(), clk)

	borrowed, err := borrow.Execute(ctx, loanapp.BorrowRequest{MemberID: m.ID, BookID: b.ID, Days: days(1)})
	require.NoError(t, err, "已提交的借阅不能报错")
	assert.NotZero(t, borrowed.ID)
	assert.Equal(t, "ACTIVE", borrowed.Status)
	require.NotNil(t, borrowed.Book)
	assert.Equal(t, 1, borrowed.Book.AvailableCopies)
	require.NotNil(t, borrowed.Member)
	assert.Equal(t, m.ID, borrowed.Member.ID)
	assert.Equal(t, 1, e.available(t, b.ID))

	e.now = testutil.Date(2024, 6, 13)
	returned, err := ret.Execute(ctx, borrowed.ID)
	require.NoError(t, err, "已提交的还书不能报错")
	assert.Equal(t, "RETURNED", returned.Status)
	require.Len(t, returned.Fines, 1)
	assert.EqualValues(t, 2*5000, returned.Fines[0].Amount)
	e.assertConserved(t, b.ID)
}
