package book_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/asset"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/library/internal/testutil"
)

var today = testutil.Date(2024, 6, 10)

// memStore 内存对象存储
type memStore struct {
	mu      sync.Mutex
	objects map[string]asset.Object
	deleted []string
	failOn  string // 路径前缀匹配时上传失败
}

func newMemStore() *memStore {
	return &memStore{objects: map[string]asset.Object{}}
}

func (s *memStore) Upload(_ context.Context, obj asset.Object) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && strings.HasPrefix(obj.Path, s.failOn) {
		return "", errors.New("upload refused")
	}
	s.objects[obj.Path] = obj
	return "https://cdn.example.com/" + obj.Path, nil
}

func (s *memStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	s.deleted = append(s.deleted, path)
	return nil
}

// failingCreate 落库总是失败
type failingCreate struct {
	book.Service
}

func (failingCreate) Create(context.Context, *book.Book) error {
	return errors.New("insert failed")
}

type env struct {
	books        book.Repository
	members      member.Repository
	loans        loan.Repository
	reservations reservation.Repository
	accountant   *inventory.Accountant
	service      book.Service
	store        *memStore

	create *bookapp.CreateBookUseCase
	get    *bookapp.GetBookUseCase
	list   *bookapp.ListBooksUseCase
	update *bookapp.UpdateBookUseCase
	delete *bookapp.DeleteBookUseCase
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t)
	tx := gormdb.NewTxManager(db)
	e := &env{
		books:        gormdb.NewBookRepository(db),
		members:      gormdb.NewMemberRepository(db),
		loans:        gormdb.NewLoanRepository(db),
		reservations: gormdb.NewReservationRepository(db),
		accountant:   inventory.NewAccountant(gormdb.NewInventoryStore(db)),
		store:        newMemStore(),
	}
	e.service = book.NewService(e.books, nil)
	e.create = bookapp.NewCreateBookUseCase(e.service, e.store)
	e.get = bookapp.NewGetBookUseCase(e.service)
	e.list = bookapp.NewListBooksUseCase(e.service)
	e.update = bookapp.NewUpdateBookUseCase(tx, e.books, e.service, e.store)
	e.delete = bookapp.NewDeleteBookUseCase(tx, e.books, e.loans, e.reservations, e.service)
	return e
}

func ptr[T any](v T) *T { return &v }

func TestCreateBook_CanonicalISBN(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.create.Execute(ctx, bookapp.CreateBookRequest{
		Title:  "Clean Code",
		Author: "Robert C. Martin",
		ISBN:   "978-0132350884",
	})
	require.NoError(t, err)
	assert.Equal(t, "9780132350884", resp.ISBN)
	assert.Equal(t, 1, resp.TotalCopies)
	assert.Equal(t, 1, resp.AvailableCopies)
	require.NotNil(t, resp.ImagePath)
	assert.Equal(t, book.DefaultCoverURL("9780132350884"), *resp.ImagePath)
	assert.Nil(t, resp.FilePath)

	_, err = e.create.Execute(ctx, bookapp.CreateBookRequest{
		Title:  "Clean Code",
		Author: "Robert C. Martin",
		ISBN:   "9780132350884",
	})
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)

	_, err = e.create.Execute(ctx, bookapp.CreateBookRequest{Title: "X", Author: "Y", ISBN: "12-34"})
	assert.ErrorIs(t, err, book.ErrInvalidISBN)
}

func TestCreateBook_CheckDigitCaseIsDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.create.Execute(ctx, bookapp.CreateBookRequest{Title: "The Art of Computer Programming", Author: "Knuth", ISBN: "0-306-40615-x"})
	require.NoError(t, err)
	assert.Equal(t, "030640615X", first.ISBN)

	_, err = e.create.Execute(ctx, bookapp.CreateBookRequest{Title: "The Art of Computer Programming", Author: "Knuth", ISBN: "0306406 15X"})
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)

	page, err := e.list.Execute(ctx, bookapp.ListBooksRequest{Query: "030640615x"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestCreateBook_WithUploads(t *testing.T) {
	e := newEnv(t)

	resp, err := e.create.Execute(context.Background(), bookapp.CreateBookRequest{
		Title:       "DDD",
		Author:      "Eric Evans",
		ISBN:        "0321125215",
		TotalCopies: ptr(4),
		File:        &bookapp.Upload{Filename: "ddd.PDF", ContentType: "application/pdf", Data: []byte("%PDF")},
		Cover:       &bookapp.Upload{Filename: "cover.jpg", Data: []byte{0xff, 0xd8}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.AvailableCopies)

	require.NotNil(t, resp.FilePath)
	assert.True(t, strings.HasPrefix(*resp.FilePath, "https://cdn.example.com/pdfs/"))
	assert.True(t, strings.HasSuffix(*resp.FilePath, ".pdf"))
	require.NotNil(t, resp.ImagePath)
	assert.True(t, strings.HasPrefix(*resp.ImagePath, "https://cdn.example.com/covers/"))
	assert.Len(t, e.store.objects, 2)

	for path, obj := range e.store.objects {
		if strings.HasPrefix(path, asset.PrefixCover) {
			assert.Equal(t, "application/octet-stream", obj.ContentType)
		}
	}
}

func TestCreateBook_InsertFailureRemovesUploads(t *testing.T) {
	e := newEnv(t)
	uc := bookapp.NewCreateBookUseCase(failingCreate{Service: e.service}, e.store)

	_, err := uc.Execute(context.Background(), bookapp.CreateBookRequest{
		Title:  "DDD",
		Author: "Eric Evans",
		ISBN:   "0321125215",
		File:   &bookapp.Upload{Filename: "ddd.pdf", Data: []byte("%PDF")},
		Cover:  &bookapp.Upload{Filename: "cover.png", Data: []byte{1}},
	})
	require.Error(t, err)
	assert.Empty(t, e.store.objects)
	assert.Len(t, e.store.deleted, 2)
}

func TestCreateBook_UploadFailure(t *testing.T) {
	e := newEnv(t)
	e.store.failOn = asset.PrefixCover

	_, err := e.create.Execute(context.Background(), bookapp.CreateBookRequest{
		Title:  "DDD",
		Author: "Eric Evans",
		ISBN:   "0321125215",
		File:   &bookapp.Upload{Filename: "ddd.pdf", Data: []byte("%PDF")},
		Cover:  &bookapp.Upload{Filename: "cover.png", Data: []byte{1}},
	})
	require.Error(t, err)
	assert.Empty(t, e.store.objects, "已上传的PDF被补偿删除")

	_, err = e.books.FindByISBN(context.Background(), "0321125215")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestCreateBook_StoreDisabled(t *testing.T) {
	e := newEnv(t)
	uc := bookapp.NewCreateBookUseCase(e.service, nil)

	_, err := uc.Execute(context.Background(), bookapp.CreateBookRequest{
		Title:  "DDD",
		Author: "Eric Evans",
		ISBN:   "0321125215",
		Cover:  &bookapp.Upload{Filename: "cover.png", Data: []byte{1}},
	})
	assert.ErrorIs(t, err, asset.ErrStoreDisabled)
}

func TestListBooks_Search(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	for _, req := range []bookapp.CreateBookRequest{
		{Title: "Clean Code", Author: "Robert Martin", ISBN: "9780132350884"},
		{Title: "Domain-Driven Design", Author: "Eric Evans", ISBN: "0321125215"},
		{Title: "Refactoring", Author: "Martin Fowler", ISBN: "9780134757599"},
	} {
		_, err := e.create.Execute(ctx, req)
		require.NoError(t, err)
	}

	resp, err := e.list.Execute(ctx, bookapp.ListBooksRequest{Query: "MARTIN"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Total)
	require.Len(t, resp.List, 2)
	assert.Equal(t, "Refactoring", resp.List[0].Title, "按ID降序")

	resp, err = e.list.Execute(ctx, bookapp.ListBooksRequest{Query: "978-0134"})
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, "Refactoring", resp.List[0].Title)

	page, err := e.list.Execute(ctx, bookapp.ListBooksRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 100, page.Limit)
}

func TestUpdateBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.create.Execute(ctx, bookapp.CreateBookRequest{
		Title: "Clean Code", Author: "Martin", ISBN: "9780132350884", TotalCopies: ptr(3),
	})
	require.NoError(t, err)

	// 借出2本
	require.NoError(t, e.accountant.ReserveCopy(ctx, created.ID))
	require.NoError(t, e.accountant.ReserveCopy(ctx, created.ID))

	resp, err := e.update.Execute(ctx, bookapp.UpdateBookRequest{
		ID:          created.ID,
		Title:       ptr("Clean Code (2nd)"),
		Author:      ptr("  "),
		TotalCopies: ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Clean Code (2nd)", resp.Title)
	assert.Equal(t, "Martin", resp.Author, "空白字段不修改")
	assert.Equal(t, 5, resp.TotalCopies)
	assert.Equal(t, 3, resp.AvailableCopies)

	_, err = e.update.Execute(ctx, bookapp.UpdateBookRequest{ID: created.ID, TotalCopies: ptr(1)})
	assert.ErrorIs(t, err, inventory.ErrInventoryUnderflow)

	got, err := e.get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalCopies, "失败的修改已回滚")

	resp, err = e.update.Execute(ctx, bookapp.UpdateBookRequest{
		ID:    created.ID,
		Cover: &bookapp.Upload{Filename: "new.webp", Data: []byte{1}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ImagePath)
	assert.True(t, strings.HasPrefix(*resp.ImagePath, "https://cdn.example.com/covers/"))

	_, err = e.update.Execute(ctx, bookapp.UpdateBookRequest{ID: 999, Title: ptr("x")})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestUpdateBook_MissingBookRemovesCover(t *testing.T) {
	e := newEnv(t)

	_, err := e.update.Execute(context.Background(), bookapp.UpdateBookRequest{
		ID:    999,
		Cover: &bookapp.Upload{Filename: "new.webp", Data: []byte{1}},
	})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Empty(t, e.store.objects)
	assert.Len(t, e.store.deleted, 1)
}

func TestDeleteBook_InUseThenCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.create.Execute(ctx, bookapp.CreateBookRequest{
		Title: "Clean Code", Author: "Martin", ISBN: "9780132350884", TotalCopies: ptr(2),
	})
	require.NoError(t, err)

	m := member.NewMember("a@example.com", "Reader", nil, today)
	require.NoError(t, e.members.Create(ctx, m))
	other := member.NewMember("b@example.com", "Other", nil, today)
	require.NoError(t, e.members.Create(ctx, other))

	l := loan.NewLoan(m.ID, created.ID, today, 14)
	require.NoError(t, e.accountant.ReserveCopy(ctx, created.ID))
	require.NoError(t, e.loans.Create(ctx, l))
	require.NoError(t, e.reservations.Create(ctx, reservation.NewReservation(other.ID, created.ID, today)))

	err = e.delete.Execute(ctx, created.ID)
	assert.ErrorIs(t, err, book.ErrBookInUse)

	// 归还后可以删除
	require.NoError(t, l.MarkReturned(today))
	require.NoError(t, e.loans.MarkReturned(ctx, l))
	_, err = e.accountant.ReleaseCopy(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, e.delete.Execute(ctx, created.ID))

	_, err = e.get.Execute(ctx, created.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	pending, err := e.reservations.ExistsPending(ctx, other.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, pending)

	// 历史借阅保留，book_id置空
	history, err := e.loans.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, history.BookID)

	assert.ErrorIs(t, e.delete.Execute(ctx, created.ID), book.ErrBookNotFound)
}
