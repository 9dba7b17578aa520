// cmd/push-gateway/main.go
package main

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"affiliatehub/internal/pkg/auth"
	"affiliatehub/internal/pkg/bootstrap"
	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/pkg/middleware"
	"affiliatehub/internal/pkg/mq"
	"affiliatehub/internal/service/push"
)

const serviceName = "push-gateway"

func main() {
	cfg := bootstrap.Init()
	// 与佣金服务共用配置文件，日志里的 service 字段单独设置
	logger.Init(serviceName, cfg.App.LogLevel)
	nodeID := serviceName + "-" + uuid.NewString()[:8]
	logger.L().Info().Str("node_id", nodeID).Msg("starting push gateway")

	hub := push.NewHub(push.NewMetrics(nil))
	// 每个网关节点使用独立的消费组，保证所有节点都能收到全部事件
	reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.EventsTopic, cfg.Push.GroupID+"-"+nodeID)
	consumer := push.NewEventConsumer(reader, hub)
	handler := push.NewHandler(hub, auth.NewVerifier(cfg.Auth.JWTSecret))

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.Push.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
			appCtx.Mux.Handle("GET /metrics", promhttp.Handler())
		},
		Workers:    []bootstrap.Worker{consumer},
		Middleware: middleware.TraceLogging(serviceName),
	})
}
