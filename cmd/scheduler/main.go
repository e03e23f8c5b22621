package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"OnTrack/config"
	"OnTrack/internal/schedule"
	"OnTrack/pkg/logger"
	"OnTrack/pkg/snowflake"
	"OnTrack/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	// 与 server / worker 区分 machine ID，避免 ID 冲突
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 日界检测循环：应用日前进时发布变更消息，worker 消费后定格过期日
	schedule.GetDayScheduler().Run(ctx)

	logger.Logger.Info("Scheduler service shutting down gracefully")
}
