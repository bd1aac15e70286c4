package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/metrics"
)

// Service 图书领域服务接口
type Service interface {
	// Prepare 校验参数并构造新图书(不落库)
	// 规则: 书名作者非空、ISBN规范化后长度10或13、总册数>=0
	Prepare(params CreateParams) (*Book, error)

	// EnsureISBNAvailable ISBN已被占用时返回ErrISBNDuplicate
	EnsureISBNAvailable(ctx context.Context, isbn string) error

	// Create 持久化新图书(补全默认封面)
	Create(ctx context.Context, book *Book) error

	// Get 根据ID获取图书详情(优先读缓存)
	Get(ctx context.Context, id uint) (*Book, error)

	// Search 分页搜索
	Search(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Invalidate 清除图书详情缓存(失败只记日志)
	Invalidate(ctx context.Context, ids ...uint)
}

// CreateParams 新建图书参数
type CreateParams struct {
	Title           string
	Author          string
	Edition         *string
	PublicationYear *int
	ISBN            string // 原始输入
	TotalCopies     int
	FilePath        *string
	ImagePath       *string
}

// 延迟二次删除
// 并发的Get可能在第一次删除之后，把提交前读到的旧行回填进缓存。
// 二次删除后旧值最多存活redeleteDelay；比这更慢的回填仍以缓存TTL为上限
const (
	redeleteDelay   = 500 * time.Millisecond
	redeleteTimeout = 3 * time.Second
)

// service 领域服务实现
type service struct {
	repo     Repository
	cache    Cache
	redelete time.Duration
}

// NewService 创建图书领域服务
func NewService(repo Repository, cache Cache) Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &service{repo: repo, cache: cache, redelete: redeleteDelay}
}

// Prepare 校验并构造图书
func (s *service) Prepare(params CreateParams) (*Book, error) {
	title := strings.TrimSpace(params.Title)
	author := strings.TrimSpace(params.Author)
	if title == "" || author == "" {
		return nil, ErrEmptyField
	}

	isbn, err := NormalizeISBN(params.ISBN)
	if err != nil {
		return nil, err
	}

	if params.TotalCopies < 0 {
		return nil, ErrInvalidCopies
	}

	b := NewBook(title, author, isbn, params.TotalCopies)
	b.Edition = params.Edition
	b.PublicationYear = params.PublicationYear
	b.FilePath = params.FilePath
	b.ImagePath = params.ImagePath
	return b, nil
}

// EnsureISBNAvailable 检查ISBN是否已存在
// 数据库唯一索引兜底并发插入
func (s *service) EnsureISBNAvailable(ctx context.Context, isbn string) error {
	_, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil {
		return ErrISBNDuplicate
	}
	if errors.Is(err, ErrBookNotFound) {
		return nil
	}
	return err
}

// Create 创建图书
func (s *service) Create(ctx context.Context, book *Book) error {
	book.EnsureImage()
	return s.repo.Create(ctx, book)
}

// Get 获取图书详情(Cache-Aside)
func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	cached, err := s.cache.Get(ctx, id)
	switch {
	case err != nil:
		metrics.BookCache("error")
		zap.L().Warn("读取图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	case cached != nil:
		metrics.BookCache("hit")
		return cached, nil
	default:
		metrics.BookCache("miss")
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, b); err != nil {
		zap.L().Warn("写入图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
	return b, nil
}

// Search 分页搜索图书
func (s *service) Search(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.Search(ctx, params)
}

// Invalidate 清除缓存，并在redelete之后再删一次
func (s *service) Invalidate(ctx context.Context, ids ...uint) {
	s.invalidate(ctx, ids)

	if _, noop := s.cache.(NoopCache); noop || len(ids) == 0 {
		return
	}
	ids = append([]uint(nil), ids...)
	detached := context.WithoutCancel(ctx)
	time.AfterFunc(s.redelete, func() {
		ctx, cancel := context.WithTimeout(detached, redeleteTimeout)
		defer cancel()
		s.invalidate(ctx, ids)
	})
}

func (s *service) invalidate(ctx context.Context, ids []uint) {
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		zap.L().Warn("清除图书缓存失败", zap.Uints("book_ids", ids), zap.Error(err))
	}
}
