package model

import "time"

// DayRecord 单个日历日的达成度记录，按 day_date 唯一。
// 生命周期：首次访问时惰性创建（同时物化当日清单任务），
// 当日内所有手动录入和同步路径都会刷新 score_provisional，
// 应用日（App Day）越过该日期后由 worker 定格为 score_final。
type DayRecord struct {
	BaseModel
	DayDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_day_records_date" json:"day_date"`

	// 营养
	ProteinGrams float64 `gorm:"not null;default:0" json:"protein_grams"`
	Calories     float64 `gorm:"not null;default:0" json:"calories"`
	CarbsGrams   float64 `gorm:"not null;default:0" json:"carbs_grams"`
	FatGrams     float64 `gorm:"not null;default:0" json:"fat_grams"`

	// 饮水（盎司）。手动录入默认 0，同步只在仍为 0 时填充
	WaterOunces float64 `gorm:"not null;default:0" json:"water_ounces"`

	// 训练
	WorkoutCompleted    bool     `gorm:"not null;default:false" json:"workout_completed"`
	WorkoutTag          string   `gorm:"type:varchar(32);not null;default:''" json:"workout_tag"`
	WorkoutQuality      *float64 `json:"workout_quality,omitempty"` // 0-5，用户主观评分，自动检测时留空
	WorkoutDurationMin  float64  `gorm:"not null;default:0" json:"workout_duration_min"`
	WorkoutCalories     float64  `gorm:"not null;default:0" json:"workout_calories"`
	WorkoutAutoDetected bool     `gorm:"not null;default:false" json:"workout_auto_detected"`

	// 每日一英里
	MileCompleted     bool     `gorm:"not null;default:false" json:"mile_completed"`
	MileDistanceMiles float64  `gorm:"not null;default:0" json:"mile_distance_miles"`
	MileSeconds       int      `gorm:"not null;default:0" json:"mile_seconds"`
	MileQuality       *float64 `json:"mile_quality,omitempty"` // 0-5，用户主观评分

	// 睡眠原始指标（来自设备同步或手动录入）
	SleepDurationMin *float64 `json:"sleep_duration_min,omitempty"`
	DeepSleepMin     *float64 `json:"deep_sleep_min,omitempty"`
	RemSleepMin      *float64 `json:"rem_sleep_min,omitempty"`
	AwakeMin         *float64 `json:"awake_min,omitempty"`
	TimeInBedMin     *float64 `json:"time_in_bed_min,omitempty"`
	HRV              *float64 `json:"hrv,omitempty"`
	RestingHR        *float64 `json:"resting_hr,omitempty"`
	SleepScore       *int     `json:"sleep_score,omitempty"` // 派生 0-5 分，存储时截断为整数

	// 活动总量（设备为权威来源，同步总是覆盖）
	StepCount       int     `gorm:"not null;default:0" json:"step_count"`
	ActiveEnergy    float64 `gorm:"not null;default:0" json:"active_energy"`
	ExerciseMinutes int     `gorm:"not null;default:0" json:"exercise_minutes"`

	// 评分生命周期。不变量：score_final 非空 当且仅当 is_finalized 为真
	ScoreProvisional int  `gorm:"not null;default:0" json:"score_provisional"`
	ScoreFinal       *int `json:"score_final,omitempty"`
	IsFinalized      bool `gorm:"not null;default:false;index:idx_day_records_finalized" json:"is_finalized"`

	// 当日清单任务，创建时物化，日内成员不增不减
	Tasks []ChecklistTask `gorm:"foreignKey:DayRecordID;constraint:OnDelete:CASCADE" json:"tasks"`
}

// TableName 指定表名
func (DayRecord) TableName() string {
	return "day_records"
}

// OrderedTaskIDs 返回按约定顺序（计划时间升序，再按插入顺序）排列的任务 ID。
// 公平分配算法依赖这个顺序保持稳定。
func (r *DayRecord) OrderedTaskIDs(pointEligibleOnly bool) []string {
	ids := make([]string, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		if pointEligibleOnly && !t.PointEligible {
			continue
		}
		ids = append(ids, t.TaskID)
	}
	return ids
}

// CompletionMap 返回 taskID -> 是否已完成 的映射，供评分使用。
func (r *DayRecord) CompletionMap() map[string]bool {
	done := make(map[string]bool, len(r.Tasks))
	for _, t := range r.Tasks {
		if t.Status == TaskStatusDone {
			done[t.TaskID] = true
		}
	}
	return done
}

// TaskByID 按稳定标识查找任务。
func (r *DayRecord) TaskByID(taskID string) *ChecklistTask {
	for i := range r.Tasks {
		if r.Tasks[i].TaskID == taskID {
			return &r.Tasks[i]
		}
	}
	return nil
}
