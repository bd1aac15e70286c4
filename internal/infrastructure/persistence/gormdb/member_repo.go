package gormdb

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/member"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// memberRepository 读者仓储实现
// 邮箱唯一性由数据库UNIQUE索引保证，冲突转换为ErrEmailDuplicate
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建读者仓储
func NewMemberRepository(db *gorm.DB) member.Repository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *member.Member) error {
	model := toMemberModel(m)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return member.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建读者失败")
	}

	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	m.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *memberRepository) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	return r.find(conn(ctx, r.db), id)
}

// LockByID SELECT ... FOR UPDATE
func (r *memberRepository) LockByID(ctx context.Context, id uint) (*member.Member, error) {
	return r.find(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *memberRepository) find(db *gorm.DB, id uint) (*member.Member, error) {
	var model MemberModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}
	return toMemberEntity(&model), nil
}

// UpdateProfile 保存姓名、电话
// 改名和停用各写各的列，并发时互不覆盖
func (r *memberRepository) UpdateProfile(ctx context.Context, m *member.Member) error {
	return r.updateColumns(ctx, m.ID, map[string]interface{}{
		"full_name": m.FullName,
		"phone":     m.Phone,
	})
}

// UpdateStatus 保存启用状态
func (r *memberRepository) UpdateStatus(ctx context.Context, id uint, active bool) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"is_active": active})
}

// updateColumns 使用map更新，保证false和nil也会写入
func (r *memberRepository) updateColumns(ctx context.Context, id uint, columns map[string]interface{}) error {
	result := conn(ctx, r.db).Model(&MemberModel{ID: id}).Updates(columns)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新读者失败")
	}
	if result.RowsAffected == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

func (r *memberRepository) List(ctx context.Context, params member.ListParams) ([]*member.Member, int64, error) {
	query := conn(ctx, r.db).Model(&MemberModel{})
	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := likePattern(q)
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者总数失败")
	}

	var models []MemberModel
	if err := query.Order("id DESC").Scopes(paginate(params.Skip, params.Limit)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者列表失败")
	}

	members := make([]*member.Member, len(models))
	for i := range models {
		members[i] = toMemberEntity(&models[i])
	}
	return members, total, nil
}

func toMemberModel(m *member.Member) *MemberModel {
	return &MemberModel{
		ID:         m.ID,
		Email:      m.Email,
		FullName:   m.FullName,
		Phone:      m.Phone,
		IsActive:   m.IsActive,
		JoinedDate: m.JoinedDate,
	}
}

func toMemberEntity(model *MemberModel) *member.Member {
	if model == nil {
		return nil
	}
	return &member.Member{
		ID:         model.ID,
		Email:      model.Email,
		FullName:   model.FullName,
		Phone:      model.Phone,
		IsActive:   model.IsActive,
		JoinedDate: model.JoinedDate.UTC(),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
