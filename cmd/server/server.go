package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	otelapi "go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"OnTrack/config"
	"OnTrack/internal/middleware"
	"OnTrack/internal/router"
	"OnTrack/pkg/health"
	"OnTrack/pkg/logger"
	"OnTrack/pkg/metrics"
	"OnTrack/pkg/otel"
	"OnTrack/pkg/snowflake"
	"OnTrack/storage"
)

func main() {
	// 日志部分
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	// 初始化存储层，记得关闭外部连接
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// 初始化健康数据提供方
	if err := health.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize health provider", zap.Error(err))
	}

	// 链路追踪与指标
	if config.Cfg.TracingEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:  config.Cfg.ServiceName,
			Environment:  config.Cfg.Environment,
			OTLPEndpoint: config.Cfg.TracingEndpoint,
			SampleRatio:  config.Cfg.TracingSampler,
		})
		if err != nil {
			logger.Logger.Warn("Failed to initialize OpenTelemetry, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
				}
			}()
		}
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
	}
	if err := middleware.InitMetrics(otelapi.Meter("ontrack-http")); err != nil {
		logger.Logger.Warn("Failed to initialize HTTP metrics", zap.Error(err))
	}

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)

	var h *server.Hertz
	if config.Cfg.TracingEnabled {
		// hertz 自带的 tracer 选项要在构造期注入
		tracerOpt, tracingMiddleware := middleware.NewServerTracerConfig()
		h = server.Default(server.WithHostPorts(addr), tracerOpt)
		h.Use(tracingMiddleware)
	} else {
		h = server.Default(server.WithHostPorts(addr))
	}

	router.Register(h)

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
