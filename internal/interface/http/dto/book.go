package dto

// CreateBookRequest HTTP入库请求
// 同时支持JSON和multipart/form-data；multipart时file、cover_image两个文件字段由handler单独读取
type CreateBookRequest struct {
	Title           string  `json:"title" form:"title" binding:"required,max=255" example:"Clean Code"`
	Author          string  `json:"author" form:"author" binding:"required,max=255" example:"Robert C. Martin"`
	Edition         *string `json:"edition" form:"edition" binding:"omitempty,max=50" example:"1st"`
	PublicationYear *int    `json:"publication_year" form:"publication_year" binding:"omitempty,min=0,max=9999" example:"2008"`
	ISBN            string  `json:"isbn" form:"isbn" binding:"required,max=32" example:"978-0132350884"` // 允许带-和空格
	TotalCopies     *int    `json:"total_copies" form:"total_copies" binding:"omitempty,min=0" example:"3"`
	FilePath        *string `json:"file_path" form:"-" binding:"omitempty,url" example:"https://cdn.example.com/pdfs/clean-code.pdf"`
	ImagePath       *string `json:"image_path" form:"-" binding:"omitempty,url" example:"https://cdn.example.com/covers/clean-code.jpg"`
}

// UpdateBookRequest HTTP修改请求，未传的字段不修改
type UpdateBookRequest struct {
	Title       *string `json:"title" form:"title" binding:"omitempty,max=255"`
	Author      *string `json:"author" form:"author" binding:"omitempty,max=255"`
	TotalCopies *int    `json:"total_copies" form:"total_copies" binding:"omitempty,min=0" example:"5"`
	ImagePath   *string `json:"image_path" form:"-" binding:"omitempty,url"`
}

// ListQuery 通用列表查询参数
type ListQuery struct {
	Skip  int    `form:"skip" binding:"omitempty,min=0" example:"0"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000" example:"100"`
	Q     string `form:"q" binding:"omitempty,max=255" example:"martin"`
}
