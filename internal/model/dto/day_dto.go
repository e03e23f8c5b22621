package dto

import "time"

// UpdateNutritionRequest 手动录入营养数据。指针字段缺省表示不修改。
type UpdateNutritionRequest struct {
	ProteinGrams *float64 `json:"protein_grams,omitempty"`
	Calories     *float64 `json:"calories,omitempty"`
	CarbsGrams   *float64 `json:"carbs_grams,omitempty"`
	FatGrams     *float64 `json:"fat_grams,omitempty"`
}

// UpdateWaterRequest 手动录入饮水。mode=add 在现有值上累加，默认直接覆盖。
type UpdateWaterRequest struct {
	Ounces float64 `json:"ounces"`
	Mode   string  `json:"mode,omitempty"` // set（默认）, add
}

// UpdateWorkoutRequest 手动录入训练。
type UpdateWorkoutRequest struct {
	Completed   bool     `json:"completed"`
	Tag         string   `json:"tag,omitempty"`
	Quality     *float64 `json:"quality,omitempty"` // 0-5
	DurationMin *float64 `json:"duration_min,omitempty"`
	Calories    *float64 `json:"calories,omitempty"`
}

// UpdateMileRequest 手动录入每日一英里。
type UpdateMileRequest struct {
	Completed      bool     `json:"completed"`
	DistanceMiles  *float64 `json:"distance_miles,omitempty"`
	ElapsedSeconds *int     `json:"elapsed_seconds,omitempty"`
	Quality        *float64 `json:"quality,omitempty"` // 0-5
}

// UpdateSleepRequest 手动录入睡眠原始指标，派生分由服务端重算。
type UpdateSleepRequest struct {
	TotalSleepMin *float64 `json:"total_sleep_min,omitempty"`
	DeepSleepMin  *float64 `json:"deep_sleep_min,omitempty"`
	RemSleepMin   *float64 `json:"rem_sleep_min,omitempty"`
	AwakeMin      *float64 `json:"awake_min,omitempty"`
	TimeInBedMin  *float64 `json:"time_in_bed_min,omitempty"`
	HRV           *float64 `json:"hrv,omitempty"`
	RestingHR     *float64 `json:"resting_hr,omitempty"`
}

// TaskItem 清单任务视图，带当前公平分配到的分值。
type TaskItem struct {
	TaskID          string     `json:"task_id"`
	Kind            string     `json:"kind"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ScheduledHour   int        `json:"scheduled_hour"`
	ScheduledMinute int        `json:"scheduled_minute"`
	PointEligible   bool       `json:"point_eligible"`
	Points          int        `json:"points"` // 非计分任务恒为 0
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	SkippedAt       *time.Time `json:"skipped_at,omitempty"`
}

// ScoreBreakdown 各类别得分拆解，随记录实时重算。
type ScoreBreakdown struct {
	Protein   float64 `json:"protein"`
	Workout   float64 `json:"workout"`
	Mile      float64 `json:"mile"`
	Sleep     float64 `json:"sleep"`
	Hydration float64 `json:"hydration"`
	Routine   float64 `json:"routine"`
}

// DaySummary 单日摘要响应。
type DaySummary struct {
	Date             string         `json:"date"`
	ScoreProvisional int            `json:"score_provisional"`
	ScoreFinal       *int           `json:"score_final,omitempty"`
	IsFinalized      bool           `json:"is_finalized"`
	Breakdown        ScoreBreakdown `json:"breakdown"`

	ProteinGrams float64 `json:"protein_grams"`
	Calories     float64 `json:"calories"`
	CarbsGrams   float64 `json:"carbs_grams"`
	FatGrams     float64 `json:"fat_grams"`
	WaterOunces  float64 `json:"water_ounces"`

	WorkoutCompleted    bool     `json:"workout_completed"`
	WorkoutTag          string   `json:"workout_tag,omitempty"`
	WorkoutQuality      *float64 `json:"workout_quality,omitempty"`
	WorkoutAutoDetected bool     `json:"workout_auto_detected"`

	MileCompleted     bool    `json:"mile_completed"`
	MileDistanceMiles float64 `json:"mile_distance_miles"`
	MileSeconds       int     `json:"mile_seconds"`

	SleepDurationMin *float64 `json:"sleep_duration_min,omitempty"`
	SleepScore       *int     `json:"sleep_score,omitempty"`

	StepCount       int     `json:"step_count"`
	ActiveEnergy    float64 `json:"active_energy"`
	ExerciseMinutes int     `json:"exercise_minutes"`

	Tasks []TaskItem `json:"tasks"`
}

// ScoreHistoryItem 历史分数条目。
type ScoreHistoryItem struct {
	Date        string `json:"date"`
	Score       int    `json:"score"`
	IsFinalized bool   `json:"is_finalized"`
}
