package book

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/inventory"
)

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"978-0132350884", "9780132350884", false},
		{"978 0 13 235088 4", "9780132350884", false},
		{"0-13-235088-2", "0132350882", false},
		{"080442957X", "080442957X", false},
		{"0-306-40615-x", "030640615X", false},
		{"0306406 15X", "030640615X", false},
		{"x306406150", "", true},
		{"12345", "", true},
		{"97801323508841", "", true},
		{"978013235088A", "", true},
		{"X804429570", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeISBN(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidISBN)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBook_ChangeTotalCopies(t *testing.T) {
	b := NewBook("Clean Code", "Robert C. Martin", "9780132350884", 3)
	b.AvailableCopies = 1 // 2本在借

	require.NoError(t, b.ChangeTotalCopies(5))
	assert.Equal(t, 5, b.TotalCopies)
	assert.Equal(t, 3, b.AvailableCopies)
	assert.Equal(t, 2, b.OnLoan())

	err := b.ChangeTotalCopies(1)
	assert.ErrorIs(t, err, inventory.ErrInventoryUnderflow)
	assert.Equal(t, 5, b.TotalCopies, "失败时不修改")
}

func TestBook_EnsureImage(t *testing.T) {
	b := NewBook("Clean Code", "Robert C. Martin", "9780132350884", 1)
	b.EnsureImage()
	require.NotNil(t, b.ImagePath)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780132350884-L.jpg", *b.ImagePath)

	custom := "https://cdn.example.com/c.jpg"
	b.ImagePath = &custom
	b.EnsureImage()
	assert.Equal(t, custom, *b.ImagePath)
}

// stubRepo 只实现Service用到的查询
type stubRepo struct {
	Repository
	byID   map[uint]*Book
	byISBN map[string]*Book
	finds  int
}

func (r *stubRepo) FindByID(_ context.Context, id uint) (*Book, error) {
	r.finds++
	if b, ok := r.byID[id]; ok {
		return b, nil
	}
	return nil, ErrBookNotFound
}

func (r *stubRepo) FindByISBN(_ context.Context, isbn string) (*Book, error) {
	if b, ok := r.byISBN[isbn]; ok {
		return b, nil
	}
	return nil, ErrBookNotFound
}

// mapCache 二次删除在定时器goroutine里执行，需要加锁
type mapCache struct {
	mu sync.Mutex
	m  map[uint]*Book
}

func (c *mapCache) Get(_ context.Context, id uint) (*Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[id], nil
}

func (c *mapCache) Set(_ context.Context, b *Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[b.ID] = b
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, ids ...uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.m, id)
	}
	return nil
}

func (c *mapCache) has(id uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[id]
	return ok
}

func TestService_Prepare(t *testing.T) {
	svc := NewService(&stubRepo{}, nil)

	b, err := svc.Prepare(CreateParams{Title: " Clean Code ", Author: "Martin", ISBN: "978-0132350884", TotalCopies: 2})
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", b.Title)
	assert.Equal(t, "9780132350884", b.ISBN)
	assert.Equal(t, 2, b.AvailableCopies)

	_, err = svc.Prepare(CreateParams{Title: "", Author: "Martin", ISBN: "9780132350884"})
	assert.ErrorIs(t, err, ErrEmptyField)

	_, err = svc.Prepare(CreateParams{Title: "T", Author: "A", ISBN: "123"})
	assert.ErrorIs(t, err, ErrInvalidISBN)

	_, err = svc.Prepare(CreateParams{Title: "T", Author: "A", ISBN: "9780132350884", TotalCopies: -1})
	assert.ErrorIs(t, err, ErrInvalidCopies)
}

func TestService_EnsureISBNAvailable(t *testing.T) {
	existing := &Book{ID: 1, ISBN: "9780132350884"}
	svc := NewService(&stubRepo{byISBN: map[string]*Book{existing.ISBN: existing}}, nil)

	assert.ErrorIs(t, svc.EnsureISBNAvailable(context.Background(), "9780132350884"), ErrISBNDuplicate)
	assert.NoError(t, svc.EnsureISBNAvailable(context.Background(), "0132350882"))
}

func TestService_GetUsesCache(t *testing.T) {
	repo := &stubRepo{byID: map[uint]*Book{7: {ID: 7, Title: "DDD"}}}
	cache := &mapCache{m: map[uint]*Book{}}
	svc := NewService(repo, cache)
	ctx := context.Background()

	b, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "DDD", b.Title)

	_, err = svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.finds, "第二次命中缓存")

	svc.Invalidate(ctx, 7)
	_, err = svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.finds)

	_, err = svc.Get(ctx, 8)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestService_InvalidateDropsLateRefill(t *testing.T) {
	repo := &stubRepo{byID: map[uint]*Book{7: {ID: 7, Title: "DDD", AvailableCopies: 1}}}
	cache := &mapCache{m: map[uint]*Book{}}
	svc := &service{repo: repo, cache: cache, redelete: 20 * time.Millisecond}
	ctx := context.Background()

	// 借书提交前读到的旧行
	stale, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)

	svc.Invalidate(ctx, 7)
	// 读者在第一次删除之后才回填
	require.NoError(t, cache.Set(ctx, stale))
	assert.True(t, cache.has(7))

	assert.Eventually(t, func() bool { return !cache.has(7) }, time.Second, 5*time.Millisecond)
}
