// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/pkg/nacos"
	"affiliatehub/internal/pkg/tracing"
)

// Worker 是随服务一起启动、关停的后台任务（例如 Kafka 消费者）。
type Worker interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context)
}

type AppCtx struct {
	Mux    *http.ServeMux
	Config *Config
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) // 允许每个服务注册自己独特的 HTTP 路由
	Workers          []Worker
	// Middleware 包裹整个 mux，例如注入 trace/logger
	Middleware func(http.Handler) http.Handler
	// OnShutdown 在 HTTP server 关闭之后执行，用于关闭数据库、Kafka writer 等
	OnShutdown []func(ctx context.Context) error
}

// Init 读取 CONFIG_PATH 指定的配置并初始化日志。
func Init() *Config {
	cfg, err := LoadConfig(getEnv("CONFIG_PATH", "configs/config.yaml"))
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.App.Name, cfg.App.LogLevel)
	return cfg
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := GetCurrentConfig()
	log := logger.L()

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 服务注册是可选的
	var namingClient *nacos.Client
	var ip string
	if cfg.Infra.Nacos.Enabled {
		namingClient, err = nacos.NewNacosClient(cfg.Infra.Nacos.Addrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		ip, err = GetOutboundIP()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := namingClient.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Config: cfg})
	}
	var handler http.Handler = mux
	if info.Middleware != nil {
		handler = info.Middleware(mux)
	}
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(info.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msgf("%s listening", info.ServiceName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Str("addr", server.Addr).Msg("could not listen")
		}
	}()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	for _, w := range info.Workers {
		if err := w.Start(workerCtx); err != nil {
			log.Fatal().Err(err).Msg("failed to start worker")
		}
	}

	// 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msgf("Shutting down service %s...", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 按启动的逆序清理
	if namingClient != nil {
		if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			log.Error().Err(err).Msg("Error deregistering from Nacos")
		}
		namingClient.Close()
	}

	stopWorkers()
	for _, w := range info.Workers {
		w.Stop(ctx)
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down http server")
	} else {
		log.Info().Msg("HTTP server shut down.")
	}

	for _, fn := range info.OnShutdown {
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Msg("Error during shutdown hook")
		}
	}

	// 最后关闭 tracer，确保缓冲的 span 都被发送
	if err := tp.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down tracer provider")
	}

	log.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}

// GetOutboundIP 返回本机对外通信使用的 IP，用于服务注册。
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
