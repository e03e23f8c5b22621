package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"OnTrack/config"
	"OnTrack/internal/cache"
	"OnTrack/internal/model"
	"OnTrack/internal/model/dto"
	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/health"
	"OnTrack/pkg/logger"
	"OnTrack/pkg/metrics"
)

// 健康数据对账：从提供方拉取读数并按合并策略写入当日记录。
// full 同步并行抓取全部类别，单类别失败只降级为诊断信息；
// quick 同步只刷新饮水和步数，供前台高频调用。

type ReconcileService struct{}

var (
	reconcileService *ReconcileService
	reconcileOnce    sync.Once
)

func Reconcile() *ReconcileService {
	reconcileOnce.Do(func() {
		reconcileService = &ReconcileService{}
	})
	return reconcileService
}

// 一次 full 同步的中间抓取结果
type fetchResult struct {
	sleep    *health.SleepReading
	sleepErr error

	workouts    []health.WorkoutReading
	workoutsErr error

	totals    map[health.Metric]float64
	totalErrs map[health.Metric]error
}

// FullSync 全量同步某一天：睡眠、训练、一英里、活动总量、饮水。
// 幂等——同一份设备数据重复同步不会改变结果。
func (s *ReconcileService) FullSync(ctx context.Context, date time.Time) (*dto.SyncReport, error) {
	return s.sync(ctx, date, "full")
}

// QuickSync 快速同步：只刷新饮水和步数。
func (s *ReconcileService) QuickSync(ctx context.Context, date time.Time) (*dto.SyncReport, error) {
	return s.sync(ctx, date, "quick")
}

func (s *ReconcileService) sync(ctx context.Context, date time.Time, mode string) (*dto.SyncReport, error) {
	date = NormalizeDate(date)
	dateStr := date.Format("2006-01-02")

	provider := health.Get()
	if !provider.Authorized(ctx) {
		return nil, pkgerrors.ProviderUnauthorized
	}

	// 同一天同一时刻只跑一个同步
	lockTTL := time.Duration(config.Cfg.SyncTimeoutSeconds) * time.Second
	locked, err := cache.TryLockSync(ctx, dateStr, lockTTL)
	if err != nil {
		logger.Logger.Warn("Failed to acquire sync lock, proceeding anyway",
			zap.String("date", dateStr),
			zap.Error(err),
		)
	} else if !locked {
		return nil, pkgerrors.SyncInProgress
	} else {
		defer func() {
			if err := cache.UnlockSync(context.WithoutCancel(ctx), dateStr); err != nil {
				logger.Logger.Warn("Failed to release sync lock", zap.String("date", dateStr), zap.Error(err))
			}
		}()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, lockTTL)
	defer cancel()

	var res fetchResult
	if mode == "full" {
		res = fetchAll(fetchCtx, provider, date)
	} else {
		res = fetchQuick(fetchCtx, provider, date)
	}

	var outcomes []dto.CategoryOutcome
	rec, err := Day().mutate(ctx, date, func(rec *model.DayRecord) error {
		outcomes = applyFetched(rec, &res, mode)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSync(ctx, mode)
	for _, o := range outcomes {
		if o.Error != "" {
			metrics.RecordSyncCategoryFailure(ctx, o.Category)
		}
	}

	logger.Logger.Info("Health data sync completed",
		zap.String("date", dateStr),
		zap.String("mode", mode),
		zap.Int("score_provisional", rec.ScoreProvisional),
	)

	return &dto.SyncReport{
		Date:             dateStr,
		Mode:             mode,
		ScoreProvisional: rec.ScoreProvisional,
		Outcomes:         outcomes,
	}, nil
}

// fetchAll 并行抓取全部类别，各自独立失败。
func fetchAll(ctx context.Context, p health.Provider, date time.Time) fetchResult {
	res := fetchResult{
		totals:    make(map[health.Metric]float64),
		totalErrs: make(map[health.Metric]error),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(2)
	go func() {
		defer wg.Done()
		res.sleep, res.sleepErr = p.FetchSleep(ctx, date)
	}()
	go func() {
		defer wg.Done()
		res.workouts, res.workoutsErr = p.FetchWorkouts(ctx, date)
	}()

	for _, metric := range []health.Metric{
		health.MetricSteps,
		health.MetricActiveEnergy,
		health.MetricExerciseMinutes,
		health.MetricWaterOunces,
	} {
		wg.Add(1)
		go func(m health.Metric) {
			defer wg.Done()
			v, ok, err := p.FetchDailyTotal(ctx, m, date)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.totalErrs[m] = err
				return
			}
			if ok {
				res.totals[m] = v
			}
		}(metric)
	}

	wg.Wait()
	return res
}

// fetchQuick 只抓饮水和步数。
func fetchQuick(ctx context.Context, p health.Provider, date time.Time) fetchResult {
	res := fetchResult{
		totals:    make(map[health.Metric]float64),
		totalErrs: make(map[health.Metric]error),
	}

	for _, metric := range []health.Metric{health.MetricWaterOunces, health.MetricSteps} {
		v, ok, err := p.FetchDailyTotal(ctx, metric, date)
		if err != nil {
			res.totalErrs[metric] = err
			continue
		}
		if ok {
			res.totals[metric] = v
		}
	}
	return res
}

// applyFetched 把抓取结果按合并策略写入记录，逐类别记录结果。
func applyFetched(rec *model.DayRecord, res *fetchResult, mode string) []dto.CategoryOutcome {
	var outcomes []dto.CategoryOutcome

	add := func(category string, applied bool, err error) {
		o := dto.CategoryOutcome{Category: category, Applied: applied}
		if err != nil {
			o.Error = err.Error()
		}
		outcomes = append(outcomes, o)
	}

	if mode == "full" {
		if res.sleepErr != nil {
			add("sleep", false, res.sleepErr)
		} else {
			add("sleep", applySleep(rec, res.sleep), nil)
		}

		if res.workoutsErr != nil {
			add("workout", false, res.workoutsErr)
			add("mile", false, res.workoutsErr)
		} else {
			add("workout", applyWorkout(rec, res.workouts), nil)
			add("mile", applyMile(rec, res.workouts), nil)
		}

		for _, metric := range []health.Metric{
			health.MetricSteps,
			health.MetricActiveEnergy,
			health.MetricExerciseMinutes,
		} {
			if err := res.totalErrs[metric]; err != nil {
				add(string(metric), false, err)
				continue
			}
			v, ok := res.totals[metric]
			add(string(metric), ok && applyTotals(rec, metric, v), nil)
		}
	} else {
		if err := res.totalErrs[health.MetricSteps]; err != nil {
			add(string(health.MetricSteps), false, err)
		} else {
			v, ok := res.totals[health.MetricSteps]
			add(string(health.MetricSteps), ok && applyTotals(rec, health.MetricSteps, v), nil)
		}
	}

	// 饮水两种模式都同步，策略相同：先写者胜
	if err := res.totalErrs[health.MetricWaterOunces]; err != nil {
		add("water", false, err)
	} else {
		v, ok := res.totals[health.MetricWaterOunces]
		add("water", ok && applyWaterIfZero(rec, v), nil)
	}

	return outcomes
}
