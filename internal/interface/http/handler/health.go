package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// HealthHandler 健康检查
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Ping 进程存活
// @Summary      存活检查
// @Tags         健康检查
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}

// Database 数据库连通性
// @Summary      数据库检查
// @Description  执行SELECT 1
// @Tags         健康检查
// @Produce      json
// @Success      200 {object} response.Response
// @Failure      500 {object} response.Response "数据库不可用"
// @Router       /health/db [get]
func (h *HealthHandler) Database(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := gormdb.Ping(ctx, h.db); err != nil {
		response.Error(c, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "数据库不可用"))
		return
	}
	response.Success(c, gin.H{"database": "connected"})
}
