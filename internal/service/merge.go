package service

import (
	"OnTrack/internal/model"
	"OnTrack/pkg/health"
)

// 同步合并策略，纯函数实现，便于脱离数据库测试。
// 三类策略：
//   - 设备权威（睡眠阶段、HRV、静息心率、步数、活动热量、锻炼分钟）：总是覆盖
//   - 先写者胜（饮水）：仅当记录里仍为零时填充
//   - 不覆盖已有（训练、一英里）：用户已录入则设备数据不动

const mileMeters = 1609.0

// applySleep 覆盖睡眠原始指标。设备是睡眠数据的唯一权威来源，
// 手动录入只是设备缺席时的兜底，同步到的读数直接替换。
func applySleep(rec *model.DayRecord, r *health.SleepReading) bool {
	if r == nil {
		return false
	}

	total := r.TotalSleepMin
	rec.SleepDurationMin = &total
	rec.DeepSleepMin = r.DeepSleepMin
	rec.RemSleepMin = r.RemSleepMin
	rec.AwakeMin = r.AwakeMin
	rec.TimeInBedMin = r.TimeInBedMin
	rec.HRV = r.HRV
	rec.RestingHR = r.RestingHR
	return true
}

// applyWaterIfZero 饮水只在仍为零时填充，用户手动记录的值永远不被同步覆盖。
func applyWaterIfZero(rec *model.DayRecord, ounces float64) bool {
	if rec.WaterOunces > 0 || ounces <= 0 {
		return false
	}
	rec.WaterOunces = ounces
	return true
}

// applyWorkout 自动检测训练：只在当天还没有任何训练记录时生效。
// 标签从设备分类尽力猜测，质量分留空——那是用户的主观判断。
func applyWorkout(rec *model.DayRecord, workouts []health.WorkoutReading) bool {
	if rec.WorkoutCompleted || len(workouts) == 0 {
		return false
	}

	// 取时长最长的一次作为当日主训练
	best := workouts[0]
	for _, w := range workouts[1:] {
		if w.DurationMin > best.DurationMin {
			best = w
		}
	}

	rec.WorkoutCompleted = true
	rec.WorkoutTag = health.GuessTag(best.Type)
	rec.WorkoutQuality = nil
	rec.WorkoutDurationMin = best.DurationMin
	rec.WorkoutCalories = best.Calories
	rec.WorkoutAutoDetected = true
	return true
}

// applyMile 从跑/走/徒步类训练中找距离达到一英里的最长一条，
// 自动核销每日一英里。已有记录不覆盖。
func applyMile(rec *model.DayRecord, workouts []health.WorkoutReading) bool {
	if rec.MileCompleted {
		return false
	}

	var best *health.WorkoutReading
	for i := range workouts {
		w := &workouts[i]
		if !health.IsRunWalkHike(w.Type) || w.DistanceMeters < mileMeters {
			continue
		}
		if best == nil || w.DistanceMeters > best.DistanceMeters {
			best = w
		}
	}
	if best == nil {
		return false
	}

	rec.MileCompleted = true
	rec.MileDistanceMiles = best.DistanceMeters / 1609.34
	rec.MileSeconds = int(best.DurationMin * 60)
	rec.MileQuality = nil
	return true
}

// applyTotals 活动总量以设备为权威，总是覆盖。
func applyTotals(rec *model.DayRecord, metric health.Metric, value float64) bool {
	switch metric {
	case health.MetricSteps:
		rec.StepCount = int(value)
	case health.MetricActiveEnergy:
		rec.ActiveEnergy = value
	case health.MetricExerciseMinutes:
		rec.ExerciseMinutes = int(value)
	default:
		return false
	}
	return true
}
