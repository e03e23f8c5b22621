package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"OnTrack/config"
	"OnTrack/internal/cache"
	"OnTrack/internal/model"
	"OnTrack/internal/model/dto"
	"OnTrack/internal/scoring"
	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/logger"
	"OnTrack/storage/database"
)

// 日记录服务：fetch-or-create、手动录入、清单状态、定格。
// 每个日期一个进程内互斥锁，本进程内的变更路径（手动录入 / 同步）串行化，
// 评分重算永远看到一致的记录快照。定格由 worker 进程执行，进程内锁管不到，
// 跨进程竞争靠数据库层条件更新兜底：定格是一次性的 WHERE is_finalized = false
// 更新，落库前先确认记录仍为临时态。

type DayService struct {
	locks sync.Map // date string -> *sync.Mutex
}

var (
	dayService *DayService
	dayOnce    sync.Once
)

func Day() *DayService {
	dayOnce.Do(func() {
		dayService = &DayService{}
	})
	return dayService
}

// NormalizeDate 归一化到当地零点，所有按日期的键都用它。
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *DayService) lockFor(date time.Time) *sync.Mutex {
	key := date.Format("2006-01-02")
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetOrCreate 按日期取记录，不存在则创建并物化当日清单。
// 清单 = 内置目录 + 当前启用的自定义模板，创建后当日成员冻结。
func (s *DayService) GetOrCreate(ctx context.Context, date time.Time) (*model.DayRecord, error) {
	date = NormalizeDate(date)

	mu := s.lockFor(date)
	mu.Lock()
	defer mu.Unlock()

	return s.getOrCreateLocked(ctx, date)
}

func (s *DayService) getOrCreateLocked(ctx context.Context, date time.Time) (*model.DayRecord, error) {
	db := database.DB().WithContext(ctx)

	var rec model.DayRecord
	err := db.Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	}).Where("day_date = ?", date).First(&rec).Error

	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query day record: %w", err)
	}

	var templates []model.CustomTaskTemplate
	if err := db.Where("enabled = ?", true).Order("id ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to load custom task templates: %w", err)
	}

	rec = model.DayRecord{
		DayDate: date,
		Tasks:   model.BuildChecklist(date, templates),
	}
	recomputeScore(&rec)

	if err := db.Create(&rec).Error; err != nil {
		// 并发创建时唯一索引兜底，重查一次
		var again model.DayRecord
		if err2 := db.Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).Where("day_date = ?", date).First(&again).Error; err2 == nil {
			return &again, nil
		}
		return nil, fmt.Errorf("failed to create day record: %w", err)
	}

	logger.Logger.Info("Created day record",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("task_count", len(rec.Tasks)),
	)

	return &rec, nil
}

// mutate 串行化的变更入口：加日期锁、加载、拒绝已定格记录、
// 应用变更、重算临时分、一次性落库。
func (s *DayService) mutate(ctx context.Context, date time.Time, fn func(*model.DayRecord) error) (*model.DayRecord, error) {
	date = NormalizeDate(date)

	mu := s.lockFor(date)
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.getOrCreateLocked(ctx, date)
	if err != nil {
		return nil, err
	}

	if rec.IsFinalized {
		return nil, pkgerrors.DayFinalized
	}

	if err := fn(rec); err != nil {
		return nil, err
	}

	recomputeScore(rec)

	if err := saveGuarded(database.DB().WithContext(ctx), rec); err != nil {
		return nil, err
	}

	// 临时分写入缓存供前台快速刷新，失败只记日志
	dateStr := date.Format("2006-01-02")
	if err := cache.CacheProvisionalScore(ctx, dateStr, rec.ScoreProvisional); err != nil {
		logger.Logger.Warn("Failed to cache provisional score",
			zap.String("date", dateStr),
			zap.Error(err),
		)
	}

	return rec, nil
}

// saveGuarded 整行落库前先做数据库层守卫。worker 可能在本次读取之后已把记录
// 定格，条件更新确认记录仍为临时态并在事务内持有行锁，整行保存不会把
// 已定格记录改写回临时态。守卫失败返回 DayFinalized。
func saveGuarded(db *gorm.DB, rec *model.DayRecord) error {
	return db.Transaction(func(tx *gorm.DB) error {
		guard := tx.Model(&model.DayRecord{}).
			Where("id = ? AND is_finalized = ?", rec.ID, false).
			Update("score_provisional", rec.ScoreProvisional)
		if guard.Error != nil {
			return fmt.Errorf("failed to guard day record save: %w", guard.Error)
		}
		if guard.RowsAffected == 0 {
			return pkgerrors.DayFinalized
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(rec).Error; err != nil {
			return fmt.Errorf("failed to save day record: %w", err)
		}
		return nil
	})
}

// finalizeDay 在数据库层原子定格一条记录：条件更新直接引用行内当前的临时分，
// 不依赖查询时的内存快照；WHERE 子句保证迁移只发生一次，并发的另一个
// 实例拿到 RowsAffected == 0。返回定格后的最终分，已定格的记录返回 ok=false。
func finalizeDay(db *gorm.DB, dayDate time.Time) (int, bool, error) {
	res := db.Model(&model.DayRecord{}).
		Where("day_date = ? AND is_finalized = ?", dayDate, false).
		Updates(map[string]interface{}{
			"score_final":  gorm.Expr("score_provisional"),
			"is_finalized": true,
		})
	if res.Error != nil {
		return 0, false, fmt.Errorf("failed to finalize day record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}

	var rec model.DayRecord
	if err := db.Select("score_final").Where("day_date = ?", dayDate).First(&rec).Error; err != nil {
		return 0, false, fmt.Errorf("failed to reload finalized score: %w", err)
	}
	if rec.ScoreFinal == nil {
		return 0, true, nil
	}
	return *rec.ScoreFinal, true, nil
}

// UpdateNutrition 手动录入营养数据，缺省字段不动。
func (s *DayService) UpdateNutrition(ctx context.Context, date time.Time, req dto.UpdateNutritionRequest) (*model.DayRecord, error) {
	return s.mutate(ctx, date, func(rec *model.DayRecord) error {
		if req.ProteinGrams != nil {
			rec.ProteinGrams = nonNegative(*req.ProteinGrams)
		}
		if req.Calories != nil {
			rec.Calories = nonNegative(*req.Calories)
		}
		if req.CarbsGrams != nil {
			rec.CarbsGrams = nonNegative(*req.CarbsGrams)
		}
		if req.FatGrams != nil {
			rec.FatGrams = nonNegative(*req.FatGrams)
		}
		return nil
	})
}

// UpdateWater 手动录入饮水。用户一旦录入过，同步就不会再覆盖该值。
func (s *DayService) UpdateWater(ctx context.Context, date time.Time, req dto.UpdateWaterRequest) (*model.DayRecord, error) {
	return s.mutate(ctx, date, func(rec *model.DayRecord) error {
		switch req.Mode {
		case "add":
			rec.WaterOunces = nonNegative(rec.WaterOunces + req.Ounces)
		default:
			rec.WaterOunces = nonNegative(req.Ounces)
		}
		return nil
	})
}

// UpdateWorkout 手动录入训练。手动路径清除自动检测标记——标签和质量分是用户判断。
func (s *DayService) UpdateWorkout(ctx context.Context, date time.Time, req dto.UpdateWorkoutRequest) (*model.DayRecord, error) {
	return s.mutate(ctx, date, func(rec *model.DayRecord) error {
		rec.WorkoutCompleted = req.Completed
		rec.WorkoutAutoDetected = false
		if req.Tag != "" {
			rec.WorkoutTag = req.Tag
		}
		if req.Quality != nil {
			q := clampQuality(*req.Quality)
			rec.WorkoutQuality = &q
		}
		if req.DurationMin != nil {
			rec.WorkoutDurationMin = nonNegative(*req.DurationMin)
		}
		if req.Calories != nil {
			rec.WorkoutCalories = nonNegative(*req.Calories)
		}
		if !req.Completed {
			rec.WorkoutTag = ""
			rec.WorkoutQuality = nil
			rec.WorkoutDurationMin = 0
			rec.WorkoutCalories = 0
		}
		return nil
	})
}

// UpdateMile 手动录入每日一英里。
func (s *DayService) UpdateMile(ctx context.Context, date time.Time, req dto.UpdateMileRequest) (*model.DayRecord, error) {
	return s.mutate(ctx, date, func(rec *model.DayRecord) error {
		rec.MileCompleted = req.Completed
		if req.DistanceMiles != nil {
			rec.MileDistanceMiles = nonNegative(*req.DistanceMiles)
		}
		if req.ElapsedSeconds != nil && *req.ElapsedSeconds > 0 {
			rec.MileSeconds = *req.ElapsedSeconds
		}
		if req.Quality != nil {
			q := clampQuality(*req.Quality)
			rec.MileQuality = &q
		}
		if !req.Completed {
			rec.MileDistanceMiles = 0
			rec.MileSeconds = 0
			rec.MileQuality = nil
		}
		return nil
	})
}

// UpdateSleep 手动录入睡眠原始指标，派生 0-5 分在重算时刷新。
func (s *DayService) UpdateSleep(ctx context.Context, date time.Time, req dto.UpdateSleepRequest) (*model.DayRecord, error) {
	return s.mutate(ctx, date, func(rec *model.DayRecord) error {
		if req.TotalSleepMin != nil {
			rec.SleepDurationMin = req.TotalSleepMin
		}
		if req.DeepSleepMin != nil {
			rec.DeepSleepMin = req.DeepSleepMin
		}
		if req.RemSleepMin != nil {
			rec.RemSleepMin = req.RemSleepMin
		}
		if req.AwakeMin != nil {
			rec.AwakeMin = req.AwakeMin
		}
		if req.TimeInBedMin != nil {
			rec.TimeInBedMin = req.TimeInBedMin
		}
		if req.HRV != nil {
			rec.HRV = req.HRV
		}
		if req.RestingHR != nil {
			rec.RestingHR = req.RestingHR
		}
		return nil
	})
}

// SetTaskStatus 清单任务状态迁移。日内只有状态变化，成员不增不减。
func (s *DayService) SetTaskStatus(ctx context.Context, date time.Time, taskID string, status model.TaskStatus) (*model.DayRecord, error) {
	return s.mutate(ctx, date, func(rec *model.DayRecord) error {
		task := rec.TaskByID(taskID)
		if task == nil {
			return pkgerrors.TaskNotFound
		}

		now := time.Now()
		switch status {
		case model.TaskStatusDone:
			task.Complete(now)
		case model.TaskStatusSkipped:
			task.Skip(now)
		case model.TaskStatusOpen:
			task.Reopen()
		default:
			return pkgerrors.TaskStatusInvalid
		}
		return nil
	})
}

// FinalizedDay 定格结果，供事件发布。
type FinalizedDay struct {
	Date  time.Time
	Score int
}

// FinalizeBefore 定格所有日期严格早于 newAppDay 且仍为临时态的记录。
// 对已定格记录是无操作；重复调用安全。
func (s *DayService) FinalizeBefore(ctx context.Context, newAppDay time.Time) ([]FinalizedDay, error) {
	newAppDay = NormalizeDate(newAppDay)
	db := database.DB().WithContext(ctx)

	var stale []model.DayRecord
	err := db.Where("day_date < ? AND is_finalized = ?", newAppDay, false).Find(&stale).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query provisional records: %w", err)
	}

	finalized := make([]FinalizedDay, 0, len(stale))
	for i := range stale {
		rec := &stale[i]

		score, ok, err := finalizeDay(db, rec.DayDate)
		if err != nil {
			logger.Logger.Error("Failed to finalize day record",
				zap.String("date", rec.DayDate.Format("2006-01-02")),
				zap.Error(err),
			)
			continue
		}
		if !ok {
			// 另一个实例抢先定格了
			continue
		}

		finalized = append(finalized, FinalizedDay{Date: rec.DayDate, Score: score})

		logger.Logger.Info("Finalized day record",
			zap.String("date", rec.DayDate.Format("2006-01-02")),
			zap.Int("score_final", score),
		)
	}

	return finalized, nil
}

// History 按日期范围取分数（定格的用最终分，未定格的用临时分）。
func (s *DayService) History(ctx context.Context, from, to time.Time) ([]dto.ScoreHistoryItem, error) {
	db := database.DB().WithContext(ctx)

	var recs []model.DayRecord
	err := db.Where("day_date >= ? AND day_date <= ?", NormalizeDate(from), NormalizeDate(to)).
		Order("day_date ASC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}

	items := make([]dto.ScoreHistoryItem, 0, len(recs))
	for _, rec := range recs {
		score := rec.ScoreProvisional
		if rec.IsFinalized && rec.ScoreFinal != nil {
			score = *rec.ScoreFinal
		}
		items = append(items, dto.ScoreHistoryItem{
			Date:        rec.DayDate.Format("2006-01-02"),
			Score:       score,
			IsFinalized: rec.IsFinalized,
		})
	}
	return items, nil
}

// recomputeScore 每次变更后的全量重算：先从睡眠原始指标刷新派生 0-5 分，
// 再跑每日总分合成。公平分配每次重新计算，不做缓存。
func recomputeScore(rec *model.DayRecord) {
	if rec.SleepDurationMin != nil {
		score := scoring.SleepScore(scoring.SleepInput{
			TotalSleepMin: *rec.SleepDurationMin,
			DeepSleepMin:  rec.DeepSleepMin,
			RemSleepMin:   rec.RemSleepMin,
			AwakeMin:      rec.AwakeMin,
			TimeInBedMin:  rec.TimeInBedMin,
			HRV:           rec.HRV,
			RestingHR:     rec.RestingHR,
		})
		trunc := int(score) // 存储截断为整数
		rec.SleepScore = &trunc
	} else {
		rec.SleepScore = nil
	}

	rec.ScoreProvisional = scoring.DailyScore(scoringInput(rec))
}

func scoringInput(rec *model.DayRecord) scoring.DailyInput {
	var sleepScore *float64
	if rec.SleepScore != nil {
		v := float64(*rec.SleepScore)
		sleepScore = &v
	}

	return scoring.DailyInput{
		ProteinGrams:       rec.ProteinGrams,
		ProteinTargetGrams: float64(config.Cfg.ProteinTargetGrams),

		WorkoutCompleted: rec.WorkoutCompleted,
		WorkoutQuality:   rec.WorkoutQuality,

		MileCompleted: rec.MileCompleted,
		MileQuality:   rec.MileQuality,

		SleepScore:       sleepScore,
		SleepDurationMin: rec.SleepDurationMin,

		WaterOunces:       rec.WaterOunces,
		WaterTargetOunces: config.Cfg.WaterTargetOunces,

		PointEligibleTaskIDs: rec.OrderedTaskIDs(true),
		RoutineBudget:        config.Cfg.RoutineBudget,
		ChecklistDone:        rec.CompletionMap(),
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampQuality(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
