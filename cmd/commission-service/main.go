// cmd/commission-service/main.go
package main

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"affiliatehub/internal/pkg/auth"
	"affiliatehub/internal/pkg/bootstrap"
	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/pkg/middleware"
	"affiliatehub/internal/pkg/mq"
	"affiliatehub/internal/pkg/redis"
	"affiliatehub/internal/service/commission/application"
	"affiliatehub/internal/service/commission/domain/port"
	"affiliatehub/internal/service/commission/infrastructure"
	"affiliatehub/internal/service/commission/infrastructure/lock"
	"affiliatehub/internal/service/commission/infrastructure/rule"
	"affiliatehub/internal/service/commission/interfaces"
	"affiliatehub/internal/zookeeper"
)

const serviceName = "commission-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	cfg := bootstrap.Init()
	log := logger.L()
	ctx := context.Background()

	// 1. 基础设施
	db, err := infrastructure.OpenMySQL(cfg.Infra.MySQL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open mysql")
	}
	store := infrastructure.NewGormStore(db)

	redisClient, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.Infra.Redis.Addr,
		Password: cfg.Infra.Redis.Password,
		DB:       cfg.Infra.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	cache, err := infrastructure.NewRedisLeaderboardCache(redisClient, cfg.Leaderboard.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init leaderboard cache")
	}

	eventWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.EventsTopic)
	publisher := infrastructure.NewKafkaEventPublisher(eventWriter)

	rules, err := rule.NewCELQualificationEngine(cfg.Rules.Qualification)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to compile qualification rules")
	}

	var locker port.RepLocker = lock.NewLocalRepLocker()
	var zkConn *zookeeper.Conn
	if cfg.App.FeatureFlags.EnableDistributedLock {
		zkConn, err = zookeeper.Connect(cfg.Infra.Zookeeper.Servers, cfg.Infra.Zookeeper.SessionTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect zookeeper")
		}
		locker = lock.NewZKRepLocker(zkConn)
	}

	// 2. 应用层
	svc := application.NewCommissionService(application.Deps{
		Store:      store,
		Authorizer: infrastructure.NewRepRoleAuthorizer(store),
		Locker:     locker,
		Publisher:  publisher,
		Cache:      cache,
		Rules:      rules,
		Tracer:     otel.Tracer(serviceName),
		Metrics:    application.NewMetrics(nil),
	})

	// 3. 接口层
	handler := interfaces.NewCommissionHandler(svc, auth.NewVerifier(cfg.Auth.JWTSecret))

	var workers []bootstrap.Worker
	var dltWriter *kafka.Writer
	if cfg.App.FeatureFlags.EnableActivityConsumer {
		reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.ActivityTopic, cfg.Infra.Kafka.GroupID)
		dltWriter = mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.ActivityDLT)
		workers = append(workers, interfaces.NewActivityConsumer(reader, dltWriter, svc))
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
		Workers:    workers,
		Middleware: middleware.TraceLogging(serviceName),
		OnShutdown: []func(ctx context.Context) error{
			func(ctx context.Context) error { return publisher.Close() },
			func(ctx context.Context) error {
				if dltWriter == nil {
					return nil
				}
				return dltWriter.Close()
			},
			func(ctx context.Context) error { return redisClient.Close() },
			func(ctx context.Context) error {
				if zkConn != nil {
					zkConn.Close()
				}
				return nil
			},
			func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	})
}
