package dto

// CreateMemberRequest HTTP读者注册请求
type CreateMemberRequest struct {
	Email    string  `json:"email" binding:"required,max=255" example:"ada@example.com"`
	FullName string  `json:"full_name" binding:"required,max=255" example:"Ada Lovelace"`
	Phone    *string `json:"phone" binding:"omitempty,max=32" example:"+44 20 7946 0000"`
}

// UpdateMemberRequest HTTP读者修改请求
// 邮箱不可修改，请求中带了也会被忽略
type UpdateMemberRequest struct {
	Email    *string `json:"email" binding:"omitempty,max=255"`
	FullName *string `json:"full_name" binding:"omitempty,max=255" example:"Ada King"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
}

// MemberStatusRequest 启用/停用读者
type MemberStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required" example:"false"`
}
