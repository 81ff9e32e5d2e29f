package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/limiter"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"github.com/wyfcoding/pkg/middleware"
	catalogapp "github.com/wyfcoding/recruitment/internal/catalog/application"
	catalogmysql "github.com/wyfcoding/recruitment/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/recruitment/internal/catalog/interfaces/http"
	"github.com/wyfcoding/recruitment/internal/document"
	"github.com/wyfcoding/recruitment/internal/jobapplication/application"
	"github.com/wyfcoding/recruitment/internal/jobapplication/infrastructure/directory"
	"github.com/wyfcoding/recruitment/internal/jobapplication/infrastructure/messaging"
	appmysql "github.com/wyfcoding/recruitment/internal/jobapplication/infrastructure/persistence/mysql"
	apphttp "github.com/wyfcoding/recruitment/internal/jobapplication/interfaces/http"
	notificationapp "github.com/wyfcoding/recruitment/internal/notification/application"
	notificationmysql "github.com/wyfcoding/recruitment/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/recruitment/internal/notification/infrastructure/sender"
	notificationhttp "github.com/wyfcoding/recruitment/internal/notification/interfaces/http"
	usermysql "github.com/wyfcoding/recruitment/internal/user/infrastructure/persistence/mysql"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/jobapplication/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(
			&appmysql.ApplicationModel{},
			&appmysql.HistoryModel{},
			&catalogmysql.JobModel{},
			&catalogmysql.CompanyModel{},
			&notificationmysql.NotificationModel{},
			&usermysql.UserModel{},
			&outbox.Message{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)

	// 6. Redis 限流
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
	}
	rateLimiter := limiter.NewRedisLimiter(redisCache.GetClient(), cfg.RateLimit.Rate, cfg.RateLimit.Burst)

	// 7. 仓储与目录
	appRepo := appmysql.NewApplicationRepository(db.RawDB())
	jobRepo := catalogmysql.NewJobRepository(db.RawDB())
	companyRepo := catalogmysql.NewCompanyRepository(db.RawDB())
	notificationRepo := notificationmysql.NewNotificationRepository(db.RawDB())
	publisher := messaging.NewOutboxPublisher(outboxMgr)

	catalogSvc := catalogapp.NewCatalogService(jobRepo, companyRepo)
	dir := directory.NewCatalogDirectory(catalogSvc)

	docStore := document.NewStore(
		envOr("DOCUMENT_ROOT", "/var/lib/recruitment/documents"),
		envOr("DOCUMENT_BASE_URL", fmt.Sprintf("http://localhost:%d", cfg.Server.HTTP.Port)),
		envOr("DOCUMENT_SIGNING_SECRET", "dev-signing-secret"),
	)
	docSvc := document.NewService(docStore)

	// 8. 应用服务
	sweeper := application.NewSweeper(appRepo, publisher)
	commandSvc := application.NewApplicationCommandService(appRepo, dir, dir, publisher, sweeper)
	querySvc := application.NewApplicationQueryService(appRepo, dir, dir, sweeper)
	notificationSvc := notificationapp.NewNotificationService(notificationRepo, sender.NewMockEmailSender())

	// 9. 接口层
	if cfg.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.HTTPMetricsMiddleware(metricsImpl), middleware.CORS())

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP", "service": cfg.Server.Name, "timestamp": time.Now().Unix()})
		})
		sys.GET("/ready", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "READY"})
		})
	}
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metricsImpl.Handler()))
	}
	registerDocumentRoutes(r, docStore)

	api := r.Group("/api")
	api.Use(middleware.RateLimitWithLimiter(rateLimiter))
	apphttp.NewApplicationHandler(commandSvc, querySvc, docSvc).RegisterRoutes(api)
	cataloghttp.NewCatalogHandler(catalogSvc).RegisterRoutes(api)
	notificationhttp.NewNotificationHandler(notificationSvc).RegisterRoutes(api)

	// 10. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		redisCache.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}

// registerDocumentRoutes 签名校验后的文档下载
func registerDocumentRoutes(r *gin.Engine, store *document.Store) {
	r.GET("/documents/:bucket/:name", func(c *gin.Context) {
		key := c.Param("bucket") + "/" + c.Param("name")
		expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed expires"})
			return
		}
		if err := store.Verify(key, expires, c.Query("signature")); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired signature"})
			return
		}
		data, err := store.Read(key)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.Data(http.StatusOK, "application/pdf", data)
	})
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
