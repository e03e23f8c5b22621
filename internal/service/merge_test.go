package service

import (
	"errors"
	"testing"

	"OnTrack/internal/model"
	"OnTrack/pkg/health"
)

func f(v float64) *float64 { return &v }

func TestApplyWaterFirstWriterWins(t *testing.T) {
	rec := &model.DayRecord{}

	if !applyWaterIfZero(rec, 64) {
		t.Fatal("empty record should accept synced water")
	}
	if rec.WaterOunces != 64 {
		t.Fatalf("WaterOunces = %v, want 64", rec.WaterOunces)
	}

	// 已有值（无论手动还是此前同步写入）不再被覆盖
	if applyWaterIfZero(rec, 80) {
		t.Fatal("existing water value must not be overwritten")
	}
	if rec.WaterOunces != 64 {
		t.Fatalf("WaterOunces = %v, want 64 after second sync", rec.WaterOunces)
	}

	manual := &model.DayRecord{WaterOunces: 40}
	if applyWaterIfZero(manual, 100) {
		t.Fatal("manual entry must win over sync")
	}
	if manual.WaterOunces != 40 {
		t.Fatalf("WaterOunces = %v, want 40", manual.WaterOunces)
	}
}

func TestApplySleepOverwrites(t *testing.T) {
	rec := &model.DayRecord{
		SleepDurationMin: f(300),
		DeepSleepMin:     f(30),
	}

	if !applySleep(rec, &health.SleepReading{
		TotalSleepMin: 480,
		DeepSleepMin:  f(96),
		HRV:           f(55),
	}) {
		t.Fatal("sleep reading should always apply")
	}
	if *rec.SleepDurationMin != 480 {
		t.Fatalf("SleepDurationMin = %v, want 480", *rec.SleepDurationMin)
	}
	if *rec.DeepSleepMin != 96 {
		t.Fatalf("DeepSleepMin = %v, want 96", *rec.DeepSleepMin)
	}
	// 读数里缺失的阶段字段也跟着清空，设备是唯一权威
	if rec.RemSleepMin != nil {
		t.Fatal("RemSleepMin should be cleared when reading lacks it")
	}

	if applySleep(rec, nil) {
		t.Fatal("nil reading should be a no-op")
	}
}

func TestApplyWorkoutDetection(t *testing.T) {
	workouts := []health.WorkoutReading{
		{Type: "Walking", DurationMin: 20, Calories: 90},
		{Type: "Traditional Strength Training", DurationMin: 55, Calories: 310},
	}

	rec := &model.DayRecord{}
	if !applyWorkout(rec, workouts) {
		t.Fatal("empty record should auto-detect workout")
	}
	if !rec.WorkoutCompleted || !rec.WorkoutAutoDetected {
		t.Fatal("detected workout should set completed and auto-detected flags")
	}
	if rec.WorkoutTag != "lift" {
		t.Fatalf("WorkoutTag = %q, want lift (longest workout wins)", rec.WorkoutTag)
	}
	if rec.WorkoutQuality != nil {
		t.Fatal("auto-detected workout must leave quality unset")
	}
	if rec.WorkoutDurationMin != 55 {
		t.Fatalf("WorkoutDurationMin = %v, want 55", rec.WorkoutDurationMin)
	}

	// 用户已录入的训练不被覆盖
	manual := &model.DayRecord{WorkoutCompleted: true, WorkoutTag: "bike"}
	if applyWorkout(manual, workouts) {
		t.Fatal("recorded workout must not be overwritten")
	}
	if manual.WorkoutTag != "bike" {
		t.Fatalf("WorkoutTag = %q, want bike", manual.WorkoutTag)
	}
}

func TestApplyMileLongestQualifying(t *testing.T) {
	workouts := []health.WorkoutReading{
		{Type: "Running", DurationMin: 9, DistanceMeters: 1500},  // 不足一英里
		{Type: "Cycling", DurationMin: 40, DistanceMeters: 9000}, // 类型不符
		{Type: "Running", DurationMin: 10, DistanceMeters: 1700},
		{Type: "Hiking", DurationMin: 60, DistanceMeters: 4000},
	}

	rec := &model.DayRecord{}
	if !applyMile(rec, workouts) {
		t.Fatal("qualifying run/walk/hike should auto-complete the mile")
	}
	if !rec.MileCompleted {
		t.Fatal("MileCompleted should be true")
	}
	// 4000m 的徒步是最长的合格条目
	wantMiles := 4000 / 1609.34
	if diff := rec.MileDistanceMiles - wantMiles; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("MileDistanceMiles = %v, want %v", rec.MileDistanceMiles, wantMiles)
	}
	if rec.MileSeconds != 3600 {
		t.Fatalf("MileSeconds = %v, want 3600", rec.MileSeconds)
	}
	if rec.MileQuality != nil {
		t.Fatal("auto-completed mile must leave quality unset")
	}

	// 无合格条目
	none := &model.DayRecord{}
	if applyMile(none, []health.WorkoutReading{
		{Type: "Cycling", DistanceMeters: 20000},
		{Type: "Running", DistanceMeters: 800},
	}) {
		t.Fatal("no qualifying workout should leave the mile untouched")
	}

	// 已完成的不覆盖
	doneQ := 4.0
	done := &model.DayRecord{MileCompleted: true, MileDistanceMiles: 1.1, MileQuality: &doneQ}
	if applyMile(done, workouts) {
		t.Fatal("recorded mile must not be overwritten")
	}
	if done.MileDistanceMiles != 1.1 || done.MileQuality == nil {
		t.Fatal("recorded mile fields must be untouched")
	}
}

func TestApplyTotalsOverwrites(t *testing.T) {
	rec := &model.DayRecord{StepCount: 100, ActiveEnergy: 50}

	if !applyTotals(rec, health.MetricSteps, 8200) {
		t.Fatal("steps should apply")
	}
	if !applyTotals(rec, health.MetricActiveEnergy, 430.5) {
		t.Fatal("active energy should apply")
	}
	if !applyTotals(rec, health.MetricExerciseMinutes, 42) {
		t.Fatal("exercise minutes should apply")
	}
	if rec.StepCount != 8200 || rec.ActiveEnergy != 430.5 || rec.ExerciseMinutes != 42 {
		t.Fatalf("totals not overwritten: %+v", rec)
	}

	if applyTotals(rec, health.MetricWaterOunces, 10) {
		t.Fatal("water is not handled by applyTotals")
	}
}

func TestApplyFetchedIdempotent(t *testing.T) {
	res := &fetchResult{
		sleep: &health.SleepReading{TotalSleepMin: 450, DeepSleepMin: f(80)},
		workouts: []health.WorkoutReading{
			{Type: "Outdoor Run", DurationMin: 30, Calories: 280, DistanceMeters: 5000},
		},
		totals: map[health.Metric]float64{
			health.MetricSteps:       9000,
			health.MetricWaterOunces: 72,
		},
		totalErrs: map[health.Metric]error{},
	}

	rec := &model.DayRecord{}
	applyFetched(rec, res, "full")
	snapshot := *rec

	// 同一份设备数据再同步一次，记录不变
	applyFetched(rec, res, "full")

	if rec.WaterOunces != snapshot.WaterOunces ||
		rec.StepCount != snapshot.StepCount ||
		rec.WorkoutTag != snapshot.WorkoutTag ||
		rec.MileDistanceMiles != snapshot.MileDistanceMiles ||
		*rec.SleepDurationMin != *snapshot.SleepDurationMin {
		t.Fatalf("second sync changed the record:\nfirst  %+v\nsecond %+v", snapshot, *rec)
	}
}

func TestApplyFetchedCategoryIsolation(t *testing.T) {
	res := &fetchResult{
		sleepErr: errors.New("fetch timed out"),
		workouts: []health.WorkoutReading{
			{Type: "Outdoor Walk", DurationMin: 25, DistanceMeters: 2000},
		},
		totals:    map[health.Metric]float64{health.MetricSteps: 4000},
		totalErrs: map[health.Metric]error{},
	}

	rec := &model.DayRecord{}
	outcomes := applyFetched(rec, res, "full")

	byCategory := make(map[string]bool)
	byError := make(map[string]string)
	for _, o := range outcomes {
		byCategory[o.Category] = o.Applied
		byError[o.Category] = o.Error
	}

	if byCategory["sleep"] {
		t.Fatal("failed sleep fetch must not be applied")
	}
	if byError["sleep"] == "" {
		t.Fatal("sleep outcome should carry the fetch error")
	}
	// 其余类别照常生效
	if !byCategory["workout"] || !byCategory["mile"] || !byCategory["steps"] {
		t.Fatalf("other categories should still apply: %+v", byCategory)
	}
	if rec.SleepDurationMin != nil {
		t.Fatal("sleep fields must stay untouched on fetch failure")
	}
	if rec.StepCount != 4000 || !rec.WorkoutCompleted || !rec.MileCompleted {
		t.Fatalf("isolated categories not applied: %+v", rec)
	}
}

func TestApplyFetchedQuickMode(t *testing.T) {
	res := &fetchResult{
		// quick 模式不该读这些字段，就算有也不生效
		sleep:    &health.SleepReading{TotalSleepMin: 400},
		workouts: []health.WorkoutReading{{Type: "Running", DurationMin: 20, DistanceMeters: 3000}},
		totals: map[health.Metric]float64{
			health.MetricSteps:       5000,
			health.MetricWaterOunces: 48,
		},
		totalErrs: map[health.Metric]error{},
	}

	rec := &model.DayRecord{}
	applyFetched(rec, res, "quick")

	if rec.StepCount != 5000 || rec.WaterOunces != 48 {
		t.Fatalf("quick sync should refresh steps and water: %+v", rec)
	}
	if rec.SleepDurationMin != nil || rec.WorkoutCompleted || rec.MileCompleted {
		t.Fatal("quick sync must not touch sleep/workout/mile")
	}
}
