package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application"
	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase *appbook.CreateBookUseCase
	getBookUseCase    *appbook.GetBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	updateBookUseCase *appbook.UpdateBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase: createBookUseCase,
		getBookUseCase:    getBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		updateBookUseCase: updateBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
	}
}

// CreateBook 图书入库
// @Summary      图书入库
// @Description  ISBN规范化后全局唯一；multipart请求可附带PDF(file)和封面(cover_image)
// @Tags         图书
// @Accept       json,mpfd
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Param        file formData file false "PDF文件"
// @Param        cover_image formData file false "封面图片"
// @Success      201 {object} response.Response{data=application.BookResponse}
// @Failure      400 {object} response.Response "参数错误/ISBN已存在"
// @Failure      500 {object} response.Response "文件存储失败"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定（按Content-Type选择JSON或表单）
	var req dto.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	ucReq := appbook.CreateBookRequest{
		Title:           req.Title,
		Author:          req.Author,
		Edition:         req.Edition,
		PublicationYear: req.PublicationYear,
		ISBN:            req.ISBN,
		TotalCopies:     req.TotalCopies,
		FilePath:        req.FilePath,
		ImagePath:       req.ImagePath,
	}

	// 2. 读取上传文件
	if isMultipart(c) {
		var err error
		if ucReq.File, err = formUpload(c, "file"); err != nil {
			bindError(c, err)
			return
		}
		if ucReq.Cover, err = formUpload(c, "cover_image"); err != nil {
			bindError(c, err)
			return
		}
	}

	// 3. 调用应用层用例
	result, err := h.createBookUseCase.Execute(c.Request.Context(), ucReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=application.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 图书列表/搜索
// @Summary      图书列表
// @Description  q按标题、作者（不区分大小写）或ISBN模糊匹配，按ID倒序
// @Tags         图书
// @Produce      json
// @Param        skip query int false "跳过条数" default(0)
// @Param        limit query int false "返回条数" default(100)
// @Param        q query string false "关键字"
// @Success      200 {object} response.Response{data=response.PageData{list=[]application.BookResponse}}
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		ListRequest: application.ListRequest{Skip: q.Skip, Limit: q.Limit},
		Query:       q.Q,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Skip, result.Limit)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  修改总数时可借数量同步变化，已借出部分不变；multipart请求可替换封面
// @Tags         图书
// @Accept       json,mpfd
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Param        cover_image formData file false "封面图片"
// @Success      200 {object} response.Response{data=application.BookResponse}
// @Failure      400 {object} response.Response "可借数量将为负"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	ucReq := appbook.UpdateBookRequest{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		TotalCopies: req.TotalCopies,
		ImagePath:   req.ImagePath,
	}
	if isMultipart(c) {
		cover, err := formUpload(c, "cover_image")
		if err != nil {
			bindError(c, err)
			return
		}
		ucReq.Cover = cover
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), ucReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  有在借记录时拒绝；该书的预约一并删除，历史借阅保留但不再关联图书
// @Tags         图书
// @Param        id path int true "图书ID"
// @Success      204 "删除成功"
// @Failure      400 {object} response.Response "图书仍有在借记录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
