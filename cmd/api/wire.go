//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链示例：
// *gin.Engine 需要 → *router.Handlers
// *handler.LoanHandler 需要 → *apploan.BorrowUseCase
// *apploan.BorrowUseCase 需要 → transaction.Manager、各Repository、*inventory.Accountant
// Repository 需要 → *gorm.DB
// *gorm.DB 需要 → *config.Config

package main

import (
	"github.com/google/wire"

	appanalytics "github.com/xiebiao/library/internal/application/analytics"
	appbook "github.com/xiebiao/library/internal/application/book"
	apploan "github.com/xiebiao/library/internal/application/loan"
	appmember "github.com/xiebiao/library/internal/application/member"
	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：数据库、缓存、对象存储、消息发布、时钟、借阅规则
var infrastructureSet = wire.NewSet(
	provideDB,
	provideBookCache,
	provideAssetStore,
	provideEventPublisher,
	provideClock,
	providePolicy,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	gormdb.NewBookRepository,
	gormdb.NewMemberRepository,
	gormdb.NewLoanRepository,
	gormdb.NewReservationRepository,
	gormdb.NewAnalyticsRepository,
	gormdb.NewInventoryStore,
	gormdb.NewTxManager,
	wire.Bind(new(transaction.Manager), new(*gormdb.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
	member.NewService,
	inventory.NewAccountant,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,

	appmember.NewCreateMemberUseCase,
	appmember.NewGetMemberUseCase,
	appmember.NewListMembersUseCase,
	appmember.NewUpdateMemberUseCase,
	appmember.NewSetMemberStatusUseCase,

	apploan.NewBorrowUseCase,
	apploan.NewReturnUseCase,
	apploan.NewListLoansUseCase,
	apploan.NewCheckAccessUseCase,

	appreservation.NewReserveUseCase,
	appreservation.NewCancelUseCase,
	appreservation.NewListReservationsUseCase,

	appanalytics.NewDashboardUseCase,
	appanalytics.NewTopBooksUseCase,
	appanalytics.NewOverdueListUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewMemberHandler,
	handler.NewLoanHandler,
	handler.NewReservationHandler,
	handler.NewAnalyticsHandler,
	handler.NewHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化整个应用
// cleanup按创建的逆序释放数据库、Redis、RabbitMQ连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
