package gormdb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/analytics"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// analyticsRepository 统计查询，全部实时计算
type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository 创建统计仓储
func NewAnalyticsRepository(db *gorm.DB) analytics.Repository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Dashboard(ctx context.Context, today time.Time) (*analytics.Dashboard, error) {
	db := conn(ctx, r.db)
	var d analytics.Dashboard

	if err := db.Model(&BookModel{}).Count(&d.TotalBooks).Error; err != nil {
		return nil, apperrors.Wrap(err, "统计图书数量失败")
	}
	if err := db.Model(&MemberModel{}).Count(&d.TotalMembers).Error; err != nil {
		return nil, apperrors.Wrap(err, "统计读者数量失败")
	}
	if err := db.Model(&LoanModel{}).Where(activeLoan).Count(&d.ActiveLoans).Error; err != nil {
		return nil, apperrors.Wrap(err, "统计在借数量失败")
	}
	err := db.Model(&LoanModel{}).
		Where(activeLoan+" AND due_date < ?", clock.Date(today)).
		Count(&d.OverdueLoans).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计逾期数量失败")
	}

	// 没有待缴罚款时SUM为NULL
	err = db.Model(&FineModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", string(loan.FinePending)).
		Scan(&d.PendingFines).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计待缴罚款失败")
	}

	return &d, nil
}

type topBookRow struct {
	BookID          uint
	BookTitle       string
	Author          string
	ISBN            string `gorm:"column:isbn"`
	TotalLoans      int64
	AvailableCopies int
}

func (r *analyticsRepository) TopBooks(ctx context.Context, limit int) ([]*analytics.TopBook, error) {
	if limit <= 0 {
		limit = analytics.DefaultTopLimit
	}

	var rows []topBookRow
	err := conn(ctx, r.db).Table("loans").
		Select("books.id AS book_id, books.title AS book_title, books.author AS author, " +
			"books.isbn AS isbn, COUNT(loans.id) AS total_loans, books.available_copies AS available_copies").
		Joins("JOIN books ON books.id = loans.book_id").
		Group("books.id, books.title, books.author, books.isbn, books.available_copies").
		Order("total_loans DESC, books.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计热门图书失败")
	}

	result := make([]*analytics.TopBook, len(rows))
	for i, row := range rows {
		result[i] = &analytics.TopBook{
			BookID:          row.BookID,
			BookTitle:       row.BookTitle,
			Author:          row.Author,
			ISBN:            row.ISBN,
			TotalLoans:      row.TotalLoans,
			AvailableCopies: row.AvailableCopies,
		}
	}
	return result, nil
}

type overdueRow struct {
	LoanID      uint
	MemberName  string
	MemberEmail string
	BookTitle   *string
	DueDate     time.Time
}

func (r *analyticsRepository) OverdueLoans(ctx context.Context, today time.Time) ([]*analytics.OverdueLoan, error) {
	var rows []overdueRow
	err := conn(ctx, r.db).Table("loans").
		Select("loans.id AS loan_id, members.full_name AS member_name, members.email AS member_email, "+
			"books.title AS book_title, loans.due_date AS due_date").
		Joins("JOIN members ON members.id = loans.member_id").
		Joins("LEFT JOIN books ON books.id = loans.book_id").
		Where("loans.return_date IS NULL AND loans.due_date < ?", clock.Date(today)).
		Order("loans.due_date ASC, loans.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询逾期借阅失败")
	}

	result := make([]*analytics.OverdueLoan, len(rows))
	for i, row := range rows {
		result[i] = &analytics.OverdueLoan{
			LoanID:      row.LoanID,
			MemberName:  row.MemberName,
			MemberEmail: row.MemberEmail,
			BookTitle:   row.BookTitle,
			DueDate:     row.DueDate.UTC(),
		}
	}
	return result, nil
}
