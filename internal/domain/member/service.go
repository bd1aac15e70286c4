package member

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Service 读者领域服务
// 读者不会被删除，只能停用
type Service interface {
	// Register 登记新读者
	Register(ctx context.Context, params RegisterParams) (*Member, error)

	// Get 获取读者
	Get(ctx context.Context, id uint) (*Member, error)

	// List 分页搜索读者
	List(ctx context.Context, params ListParams) ([]*Member, int64, error)

	// Update 修改姓名和电话，nil字段不修改
	// 调用方负责开启事务，读者行在事务内加锁
	Update(ctx context.Context, id uint, params UpdateParams) (*Member, error)

	// SetActive 启用或停用
	SetActive(ctx context.Context, id uint, active bool) (*Member, error)
}

// RegisterParams 登记参数
type RegisterParams struct {
	Email    string
	FullName string
	Phone    *string
	Today    time.Time
}

// UpdateParams 修改参数
type UpdateParams struct {
	FullName *string
	Phone    *string
}

type service struct {
	repo Repository
}

// NewService 创建读者服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 登记新读者
// 业务规则：
// 1. 邮箱格式校验，存储前统一小写
// 2. 姓名不能为空
// 3. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, params RegisterParams) (*Member, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	name := strings.TrimSpace(params.FullName)
	if name == "" {
		return nil, ErrEmptyName
	}

	m := NewMember(email, name, params.Phone, params.Today)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err // Repository已转换为业务错误
	}
	return m, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Member, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Member, int64, error) {
	return s.repo.List(ctx, params)
}

// Update 修改读者资料
func (s *service) Update(ctx context.Context, id uint, params UpdateParams) (*Member, error) {
	m, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.FullName != nil {
		name := strings.TrimSpace(*params.FullName)
		if name == "" {
			return nil, ErrEmptyName
		}
		m.Rename(name)
	}
	if params.Phone != nil {
		m.ChangePhone(strings.TrimSpace(*params.Phone))
	}

	if err := s.repo.UpdateProfile(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetActive 修改启用状态
func (s *service) SetActive(ctx context.Context, id uint, active bool) (*Member, error) {
	m, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, active); err != nil {
		return nil, err
	}
	m.IsActive = active
	return m, nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isValidEmail 邮箱格式校验
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
