package gormdb

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责领域实体与GORM模型之间的转换
// 3. 唯一索引冲突转换为ErrISBNDuplicate
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	if err := conn(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// LockByID 悲观锁查询图书
// 必须在事务内调用；SQLite没有行锁，由BEGIN IMMEDIATE串行化写事务
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 保存图书可变字段（ISBN不可修改）
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := conn(ctx, r.db).Model(&BookModel{ID: b.ID}).Updates(map[string]interface{}{
		"title":            b.Title,
		"author":           b.Author,
		"edition":          b.Edition,
		"publication_year": b.PublicationYear,
		"total_copies":     b.TotalCopies,
		"available_copies": b.AvailableCopies,
		"file_path":        b.FilePath,
		"image_path":       b.ImagePath,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Delete 物理删除图书
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Search 搜索图书
// 标题、作者不区分大小写；ISBN按规范化形式匹配
func (r *bookRepository) Search(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	query := conn(ctx, r.db).Model(&BookModel{})

	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := likePattern(q)
		isbnPattern := "%" + strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(q)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR isbn LIKE ?",
			pattern, pattern, isbnPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	var models []BookModel
	if err := query.Order("id DESC").Scopes(paginate(params.Skip, params.Limit)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// =========================================
// 模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Edition:         b.Edition,
		PublicationYear: b.PublicationYear,
		ISBN:            b.ISBN,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		FilePath:        b.FilePath,
		ImagePath:       b.ImagePath,
	}
}

func toBookEntity(model *BookModel) *book.Book {
	if model == nil {
		return nil
	}
	return &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		Author:          model.Author,
		Edition:         model.Edition,
		PublicationYear: model.PublicationYear,
		ISBN:            model.ISBN,
		TotalCopies:     model.TotalCopies,
		AvailableCopies: model.AvailableCopies,
		FilePath:        model.FilePath,
		ImagePath:       model.ImagePath,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
