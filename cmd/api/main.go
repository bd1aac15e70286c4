package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/xiebiao/library/docs"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// @title           Library API
// @version         1.0
// @description     图书馆借阅管理：图书、读者、借还、罚款、预约、统计
// @BasePath        /api/v1

// shutdownTimeout 优雅退出等待在途请求的时间
const shutdownTimeout = 10 * time.Second

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "library-api",
		Short:         "图书馆借阅管理服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "启动HTTP服务",
			RunE:  func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "迁移数据库表结构后退出",
			RunE:  func(cmd *cobra.Command, args []string) error { return migrate() },
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

// bootstrap 加载配置并初始化日志
func bootstrap() (*config.Config, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	syncLogger, err := logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, syncLogger, nil
}

func serve(ctx context.Context) error {
	cfg, syncLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer syncLogger()

	zap.L().Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", cfg.Database.DriverName()),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("storage", cfg.Storage.Enabled()),
		zap.Bool("mq", cfg.MQ.Enabled))

	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return fmt.Errorf("初始化链路追踪失败: %w", err)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				zap.L().Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
	}

	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("服务启动成功",
			zap.String("addr", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", srv.Addr)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("启动服务失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("收到退出信号，等待在途请求完成")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("优雅退出失败: %w", err)
	}
	zap.L().Info("服务已停止")
	return nil
}

func migrate() error {
	cfg, syncLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer syncLogger()

	// NewDB内不再自动迁移，由下面显式执行
	cfg.Database.AutoMigrate = false
	db, err := gormdb.NewDB(cfg)
	if err != nil {
		return err
	}
	defer gormdb.Close(db)

	if err := gormdb.Migrate(db); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	zap.L().Info("数据库迁移完成", zap.String("driver", cfg.Database.DriverName()))
	return nil
}
