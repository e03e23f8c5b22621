package health

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"OnTrack/config"
	"OnTrack/pkg/logger"
)

// 健康数据提供方抽象。核心只依赖这组类型化读数接口，
// 真实设备桥（HealthKit 导出、Garmin 等）在外部实现并注册。

// Metric 每日汇总指标枚举
type Metric string

const (
	MetricSteps           Metric = "steps"
	MetricActiveEnergy    Metric = "active_energy"
	MetricExerciseMinutes Metric = "exercise_minutes"
	MetricWaterOunces     Metric = "water_ounces"
)

// SleepReading 一晚睡眠的类型化读数。阶段数据可缺失。
type SleepReading struct {
	TotalSleepMin float64
	DeepSleepMin  *float64
	RemSleepMin   *float64
	AwakeMin      *float64
	TimeInBedMin  *float64
	HRV           *float64
	RestingHR     *float64
}

// WorkoutReading 提供方报告的一次训练。
type WorkoutReading struct {
	Type           string // 提供方自己的训练类型分类
	StartedAt      time.Time
	DurationMin    float64
	Calories       float64
	DistanceMeters float64
}

// Provider 传感器/设备数据源。每个类别独立可失败；
// 任何抓取前都应先通过 Authorized 检查授权状态。
type Provider interface {
	Authorized(ctx context.Context) bool
	FetchSleep(ctx context.Context, date time.Time) (*SleepReading, error)
	FetchWorkouts(ctx context.Context, date time.Time) ([]WorkoutReading, error)
	FetchDailyTotal(ctx context.Context, metric Metric, date time.Time) (float64, bool, error)
}

var (
	provider Provider
	once     sync.Once
	initErr  error
)

// Init 按配置初始化提供方。
func Init() error {
	once.Do(func() {
		switch config.Cfg.HealthProvider {
		case "mock":
			provider = NewMockProvider()
		default:
			initErr = fmt.Errorf("unsupported health provider: %s", config.Cfg.HealthProvider)
		}

		if initErr != nil {
			logger.Logger.Error("Failed to initialize health provider", zap.Error(initErr))
			return
		}

		logger.Logger.Info("Health provider initialized successfully",
			zap.String("provider", config.Cfg.HealthProvider),
		)
	})

	return initErr
}

// Get 返回已初始化的提供方。
func Get() Provider {
	if provider == nil {
		panic("health provider not init")
	}
	return provider
}

// SetProvider 测试或外部桥接时替换提供方。
func SetProvider(p Provider) {
	provider = p
}

// GuessTag 从提供方的训练类型分类猜一个本系统的训练标签。
// 只是尽力而为：猜错由用户事后修正，已有标签永远不会被覆盖。
func GuessTag(providerType string) string {
	switch t := strings.ToLower(providerType); {
	case strings.Contains(t, "run"):
		return "run"
	case strings.Contains(t, "walk"), strings.Contains(t, "hik"):
		return "walk"
	case strings.Contains(t, "strength"), strings.Contains(t, "lift"), strings.Contains(t, "weight"):
		return "lift"
	case strings.Contains(t, "cycl"), strings.Contains(t, "bike"):
		return "bike"
	case strings.Contains(t, "yoga"), strings.Contains(t, "flexibility"), strings.Contains(t, "stretch"):
		return "mobility"
	case strings.Contains(t, "swim"):
		return "swim"
	default:
		return "other"
	}
}

// IsRunWalkHike 判断该训练是否可作为每日一英里的候选。
func IsRunWalkHike(providerType string) bool {
	t := strings.ToLower(providerType)
	return strings.Contains(t, "run") || strings.Contains(t, "walk") || strings.Contains(t, "hik")
}
