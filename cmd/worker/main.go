package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	catalogapp "github.com/wyfcoding/recruitment/internal/catalog/application"
	catalogmysql "github.com/wyfcoding/recruitment/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/recruitment/internal/document"
	employmentapp "github.com/wyfcoding/recruitment/internal/employment/application"
	employmentmysql "github.com/wyfcoding/recruitment/internal/employment/infrastructure/persistence/mysql"
	"github.com/wyfcoding/recruitment/internal/jobapplication/application"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
	"github.com/wyfcoding/recruitment/internal/jobapplication/infrastructure/messaging"
	appmysql "github.com/wyfcoding/recruitment/internal/jobapplication/infrastructure/persistence/mysql"
	appredis "github.com/wyfcoding/recruitment/internal/jobapplication/infrastructure/persistence/redis"
	appconsumer "github.com/wyfcoding/recruitment/internal/jobapplication/interfaces/consumer"
	notificationapp "github.com/wyfcoding/recruitment/internal/notification/application"
	notificationmysql "github.com/wyfcoding/recruitment/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/recruitment/internal/notification/infrastructure/sender"
	userapp "github.com/wyfcoding/recruitment/internal/user/application"
	usermysql "github.com/wyfcoding/recruitment/internal/user/infrastructure/persistence/mysql"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/worker/config.toml", "config file path")

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
		if err := db.RawDB().AutoMigrate(&employmentmysql.EmploymentModel{}, &outbox.Message{}); err != nil {
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

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	// 7. 仓储与服务
	appRepo := appmysql.NewApplicationRepository(db.RawDB())
	jobRepo := catalogmysql.NewJobRepository(db.RawDB())
	companyRepo := catalogmysql.NewCompanyRepository(db.RawDB())
	notificationRepo := notificationmysql.NewNotificationRepository(db.RawDB())
	employmentRepo := employmentmysql.NewEmploymentRepository(db.RawDB())
	userRepo := usermysql.NewUserRepository(db.RawDB())
	reminderRepo := appredis.NewReminderRedisRepository(redisCache.GetClient())
	publisher := messaging.NewOutboxPublisher(outboxMgr)

	catalogSvc := catalogapp.NewCatalogService(jobRepo, companyRepo)
	userSvc := userapp.NewUserService(userRepo)
	employmentSvc := employmentapp.NewEmploymentService(employmentRepo)
	notificationSvc := notificationapp.NewNotificationService(
		notificationRepo,
		sender.NewSMTPSender(
			envOr("SMTP_HOST", "localhost"),
			envOr("SMTP_PORT", "25"),
			os.Getenv("SMTP_USERNAME"),
			os.Getenv("SMTP_PASSWORD"),
			envOr("SMTP_FROM", "no-reply@recruitment.local"),
		),
	)
	docStore := document.NewStore(
		envOr("DOCUMENT_ROOT", "/var/lib/recruitment/documents"),
		envOr("DOCUMENT_BASE_URL", "http://localhost:8080"),
		envOr("DOCUMENT_SIGNING_SECRET", "dev-signing-secret"),
	)
	docSvc := document.NewService(docStore)

	sweeper := application.NewSweeper(appRepo, publisher)
	scheduler := application.NewScheduler(appRepo, publisher, sweeper, reminderRepo)

	// 8. 消费者
	handler := appconsumer.NewSideEffectHandler(
		notificationSvc, catalogSvc, userSvc, employmentSvc, docSvc, appRepo, logger.Logger,
	)
	consumers := make([]*kafka.Consumer, 0, len(domain.Topics))
	for _, topic := range domain.Topics {
		consumerCfg := cfg.MessageQueue.Kafka
		consumerCfg.Topic = topic
		if consumerCfg.GroupID == "" {
			consumerCfg.GroupID = "recruitment-sideeffect-group"
		}
		consumer := kafka.NewConsumer(&consumerCfg, logger, metricsImpl)
		consumer.Start(context.Background(), 3, handler.Handle)
		consumers = append(consumers, consumer)
	}

	// 9. 定时任务
	c := cron.New()
	if _, err := c.AddFunc("@every 10m", func() {
		if err := scheduler.SweepExpired(context.Background()); err != nil {
			slog.Error("validity sweep failed", "error", err)
		}
	}); err != nil {
		slog.Error("failed to register sweep job", "error", err)
		os.Exit(1)
	}
	if _, err := c.AddFunc("@hourly", func() {
		if err := scheduler.RemindExpiringOffers(context.Background()); err != nil {
			slog.Error("offer reminder job failed", "error", err)
		}
	}); err != nil {
		slog.Error("failed to register reminder job", "error", err)
		os.Exit(1)
	}

	// 10. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		c.Start()
		slog.Info("worker schedules started")
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down worker...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		for _, consumer := range consumers {
			if consumer != nil {
				_ = consumer.Close()
			}
		}
		redisCache.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("worker exited with error", "error", err)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
