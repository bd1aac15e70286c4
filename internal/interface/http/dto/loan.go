package dto

// BorrowRequest HTTP借书请求
type BorrowRequest struct {
	MemberID uint `json:"member_id" binding:"required" example:"1"`
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Days     *int `json:"days" example:"14"` // 不传使用默认借期，范围由借阅规则校验
}

// ListLoansQuery 借阅列表查询参数
type ListLoansQuery struct {
	Skip     int    `form:"skip" binding:"omitempty,min=0"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=1000"`
	MemberID *uint  `form:"member_id"`
	BookID   *uint  `form:"book_id"`
	Status   string `form:"status" example:"OVERDUE"` // ACTIVE | RETURNED | OVERDUE
}

// CheckAccessQuery 借阅权限查询参数
type CheckAccessQuery struct {
	BookID   uint `form:"book_id" binding:"required" example:"1"`
	MemberID uint `form:"member_id" binding:"required" example:"1"`
}

// ReserveRequest HTTP预约请求
type ReserveRequest struct {
	MemberID uint `json:"member_id" binding:"required" example:"1"`
	BookID   uint `json:"book_id" binding:"required" example:"1"`
}

// ListReservationsQuery 预约列表查询参数
type ListReservationsQuery struct {
	Skip     int   `form:"skip" binding:"omitempty,min=0"`
	Limit    int   `form:"limit" binding:"omitempty,min=1,max=1000"`
	MemberID *uint `form:"member_id"`
	BookID   *uint `form:"book_id"`
}

// TopBooksQuery 热门图书查询参数
type TopBooksQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000" example:"5"`
}
