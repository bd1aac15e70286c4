package gormdb

import (
	"time"
)

// BookModel GORM图书模型
// 1. ISBN唯一索引，存规范化后的形式（纯数字，ISBN-10校验位可为大写X）
// 2. check约束兜底 available_copies >= 0
// 3. 物理删除：借阅的book_id置空，预约级联删除
type BookModel struct {
	ID              uint    `gorm:"primaryKey"`
	Title           string  `gorm:"index;size:255;not null"`
	Author          string  `gorm:"index;size:255;not null"`
	Edition         *string `gorm:"size:100"`
	PublicationYear *int
	ISBN            string  `gorm:"uniqueIndex:uq_books_isbn;size:13;not null"`
	TotalCopies     int     `gorm:"not null;check:chk_books_total_copies,total_copies >= 0"`
	AvailableCopies int     `gorm:"not null;check:chk_books_available_copies,available_copies >= 0"`
	FilePath        *string `gorm:"size:500"`
	ImagePath       *string `gorm:"size:500"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// MemberModel GORM读者模型
type MemberModel struct {
	ID         uint      `gorm:"primaryKey"`
	Email      string    `gorm:"uniqueIndex:uq_members_email;size:255;not null"`
	FullName   string    `gorm:"size:255;not null"`
	Phone      *string   `gorm:"size:50"`
	IsActive   bool      `gorm:"not null"`
	JoinedDate time.Time `gorm:"type:date;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 指定表名
func (MemberModel) TableName() string {
	return "members"
}

// LoanModel GORM借阅模型
// 在借谓词: return_date IS NULL
type LoanModel struct {
	ID         uint `gorm:"primaryKey"`
	MemberID   uint `gorm:"index;not null"`
	Member     *MemberModel
	BookID     *uint       `gorm:"index"`
	Book       *BookModel  `gorm:"constraint:OnDelete:SET NULL"`
	LoanDate   time.Time   `gorm:"type:date;not null"`
	DueDate    time.Time   `gorm:"type:date;not null;index;check:chk_loans_due_date,due_date >= loan_date"`
	ReturnDate *time.Time  `gorm:"type:date;index"`
	Status     string      `gorm:"size:20;not null;default:ACTIVE"`
	Fines      []FineModel `gorm:"foreignKey:LoanID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 指定表名
func (LoanModel) TableName() string {
	return "loans"
}

// FineModel GORM罚款模型
type FineModel struct {
	ID        uint   `gorm:"primaryKey"`
	LoanID    uint   `gorm:"index;not null"`
	Amount    int64  `gorm:"not null;check:chk_fines_amount,amount >= 0"`
	Status    string `gorm:"size:20;not null;default:PENDING;index"`
	CreatedAt time.Time
}

// TableName 指定表名
func (FineModel) TableName() string {
	return "fines"
}

// ReservationModel GORM预约模型
type ReservationModel struct {
	ID              uint         `gorm:"primaryKey"`
	MemberID        uint         `gorm:"index;not null"`
	Member          *MemberModel `gorm:"constraint:OnDelete:CASCADE"`
	BookID          uint         `gorm:"index;not null"`
	Book            *BookModel   `gorm:"constraint:OnDelete:CASCADE"`
	ReservationDate time.Time    `gorm:"type:date;not null"`
	Status          string       `gorm:"size:20;not null;default:pending"`
	CreatedAt       time.Time
}

// TableName 指定表名
func (ReservationModel) TableName() string {
	return "reservations"
}
