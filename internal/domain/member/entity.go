package member

import (
	"time"
)

// Member 读者实体（聚合根）
// 领域实体不依赖GORM tag，映射在infrastructure层处理
type Member struct {
	ID         uint
	Email      string
	FullName   string
	Phone      *string
	IsActive   bool
	JoinedDate time.Time // 日历日
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewMember 创建新读者（工厂方法）
// 新读者默认启用，入会日期为today
func NewMember(email, fullName string, phone *string, today time.Time) *Member {
	return &Member{
		Email:      email,
		FullName:   fullName,
		Phone:      phone,
		IsActive:   true,
		JoinedDate: today,
	}
}

// CanBorrow 停用的读者不能借书
func (m *Member) CanBorrow() bool {
	return m.IsActive
}

// Rename 修改姓名
func (m *Member) Rename(fullName string) {
	m.FullName = fullName
}

// ChangePhone 修改电话，空串表示清除
func (m *Member) ChangePhone(phone string) {
	if phone == "" {
		m.Phone = nil
		return
	}
	m.Phone = &phone
}
