package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// activeLoan 在借谓词
const activeLoan = "return_date IS NULL"

// loanRepository 借阅仓储实现
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := toLoanModel(l)
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅记录失败")
	}
	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 预加载图书、读者、罚款
func (r *loanRepository) FindByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	err := conn(ctx, r.db).
		Preload("Book").
		Preload("Member").
		Preload("Fines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return toLoanEntity(&model), nil
}

func (r *loanRepository) LockByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "锁定借阅记录失败")
	}
	return toLoanEntity(&model), nil
}

// MarkReturned 条件更新，只有未归还的记录才会被修改
func (r *loanRepository) MarkReturned(ctx context.Context, l *loan.Loan) error {
	result := conn(ctx, r.db).Model(&LoanModel{}).
		Where("id = ? AND "+activeLoan, l.ID).
		Updates(map[string]interface{}{
			"return_date": l.ReturnDate,
			"status":      l.Status.String(),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅记录失败")
	}
	if result.RowsAffected == 0 {
		return loan.ErrAlreadyReturned
	}
	return nil
}

func (r *loanRepository) CreateFine(ctx context.Context, f *loan.Fine) error {
	model := &FineModel{
		LoanID: f.LoanID,
		Amount: f.Amount,
		Status: string(f.Status),
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建罚款失败")
	}
	f.ID = model.ID
	f.CreatedAt = model.CreatedAt
	return nil
}

func (r *loanRepository) CountActiveByMember(ctx context.Context, memberID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&LoanModel{}).
		Where("member_id = ? AND "+activeLoan, memberID).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计读者在借数量失败")
	}
	return n, nil
}

func (r *loanRepository) CountActiveByBook(ctx context.Context, bookID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&LoanModel{}).
		Where("book_id = ? AND "+activeLoan, bookID).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计图书在借数量失败")
	}
	return n, nil
}

func (r *loanRepository) ExistsActive(ctx context.Context, memberID, bookID uint) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&LoanModel{}).
		Where("member_id = ? AND book_id = ? AND "+activeLoan, memberID, bookID).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return n > 0, nil
}

// DetachBook 不依赖外键ON DELETE SET NULL，MySQL/SQLite未开启外键时同样成立
func (r *loanRepository) DetachBook(ctx context.Context, bookID uint) error {
	err := conn(ctx, r.db).Model(&LoanModel{}).
		Where("book_id = ?", bookID).
		Update("book_id", nil).Error
	if err != nil {
		return apperrors.Wrap(err, "解除借阅与图书关联失败")
	}
	return nil
}

func (r *loanRepository) List(ctx context.Context, params loan.ListParams) ([]*loan.Loan, int64, error) {
	query := conn(ctx, r.db).Model(&LoanModel{})
	if params.MemberID != nil {
		query = query.Where("member_id = ?", *params.MemberID)
	}
	if params.BookID != nil {
		query = query.Where("book_id = ?", *params.BookID)
	}
	switch params.Status {
	case loan.StatusActive:
		query = query.Where(activeLoan)
	case loan.StatusReturned:
		query = query.Where("return_date IS NOT NULL")
	case loan.StatusOverdue:
		query = query.Where(activeLoan+" AND due_date < ?", clock.Date(params.Today))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅总数失败")
	}

	var models []LoanModel
	err := query.
		Preload("Book").
		Preload("Member").
		Preload("Fines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id DESC").
		Scopes(paginate(params.Skip, params.Limit)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅列表失败")
	}

	loans := make([]*loan.Loan, len(models))
	for i := range models {
		loans[i] = toLoanEntity(&models[i])
	}
	return loans, total, nil
}

func toLoanModel(l *loan.Loan) *LoanModel {
	return &LoanModel{
		ID:         l.ID,
		MemberID:   l.MemberID,
		BookID:     l.BookID,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Status:     l.Status.String(),
	}
}

func toLoanEntity(model *LoanModel) *loan.Loan {
	l := &loan.Loan{
		ID:        model.ID,
		MemberID:  model.MemberID,
		BookID:    model.BookID,
		LoanDate:  model.LoanDate.UTC(),
		DueDate:   model.DueDate.UTC(),
		Status:    loan.Status(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		Book:      toBookEntity(model.Book),
		Member:    toMemberEntity(model.Member),
	}
	if model.ReturnDate != nil {
		t := model.ReturnDate.UTC()
		l.ReturnDate = &t
	}
	for i := range model.Fines {
		f := model.Fines[i]
		l.Fines = append(l.Fines, &loan.Fine{
			ID:        f.ID,
			LoanID:    f.LoanID,
			Amount:    f.Amount,
			Status:    loan.FineStatus(f.Status),
			CreatedAt: f.CreatedAt,
		})
	}
	return l
}
