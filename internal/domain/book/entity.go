package book

import (
	"fmt"
	"time"

	"github.com/xiebiao/library/internal/domain/inventory"
)

// Book 图书实体(聚合根)
// 不变量: 0 <= AvailableCopies <= TotalCopies
// AvailableCopies 只能经由 inventory.Accountant 或 ChangeTotalCopies 修改
type Book struct {
	ID              uint
	Title           string
	Author          string
	Edition         *string
	PublicationYear *int
	ISBN            string // 规范化后的ISBN(去掉-和空格)
	TotalCopies     int
	AvailableCopies int
	FilePath        *string // PDF外链
	ImagePath       *string // 封面外链
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// isbn需已规范化；可借数初始化为总册数；未提供封面时使用Open Library封面
func NewBook(title, author, isbn string, totalCopies int) *Book {
	return &Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}
}

// ChangeTotalCopies 修改总册数，可借数同步变化相同差值
func (b *Book) ChangeTotalCopies(newTotal int) error {
	available, err := inventory.Resize(b.TotalCopies, b.AvailableCopies, newTotal)
	if err != nil {
		return err
	}
	b.TotalCopies = newTotal
	b.AvailableCopies = available
	return nil
}

// OnLoan 当前在借册数
func (b *Book) OnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

// HasAvailableCopy 是否还有可借副本
func (b *Book) HasAvailableCopy() bool {
	return b.AvailableCopies >= 1
}

// EnsureImage 未设置封面时使用ISBN推导的默认封面
func (b *Book) EnsureImage() {
	if b.ImagePath == nil || *b.ImagePath == "" {
		url := DefaultCoverURL(b.ISBN)
		b.ImagePath = &url
	}
}

// DefaultCoverURL Open Library封面地址
func DefaultCoverURL(isbn string) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", isbn)
}
