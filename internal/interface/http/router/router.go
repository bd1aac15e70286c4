// Package router 组装gin引擎：中间件、业务路由、运维路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	Book        *handler.BookHandler
	Member      *handler.MemberHandler
	Loan        *handler.LoanHandler
	Reservation *handler.ReservationHandler
	Analytics   *handler.AnalyticsHandler
	Health      *handler.HealthHandler
}

// New 创建并配置Gin引擎
// 中间件顺序：Recovery → Logger → Metrics → CORS → 限流
func New(cfg *config.Config, h *Handlers) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit).Handler())
	}

	// 运维路由
	r.GET("/ping", h.Health.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ping", h.Health.Ping)
		v1.GET("/health/db", h.Health.Database)

		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.POST("", h.Book.CreateBook)
			books.GET("/:id", h.Book.GetBook)
			books.PUT("/:id", h.Book.UpdateBook)
			books.DELETE("/:id", h.Book.DeleteBook)
		}

		members := v1.Group("/members")
		{
			members.GET("", h.Member.ListMembers)
			members.POST("", h.Member.CreateMember)
			members.GET("/:id", h.Member.GetMember)
			members.PUT("/:id", h.Member.UpdateMember)
			members.PUT("/:id/status", h.Member.SetMemberStatus)
		}

		loans := v1.Group("/loans")
		{
			loans.GET("", h.Loan.ListLoans)
			loans.GET("/check-access", h.Loan.CheckAccess)
			loans.POST("/borrow", h.Loan.Borrow)
			loans.POST("/return/:id", h.Loan.Return)
		}

		reservations := v1.Group("/reservations")
		{
			reservations.GET("", h.Reservation.ListReservations)
			reservations.POST("/reserve", h.Reservation.Reserve)
			reservations.DELETE("/:id", h.Reservation.Cancel)
		}

		stats := v1.Group("/analytics")
		{
			stats.GET("/dashboard", h.Analytics.Dashboard)
			stats.GET("/top-books", h.Analytics.TopBooks)
			stats.GET("/overdue-list", h.Analytics.OverdueList)
		}
	}

	return r
}
