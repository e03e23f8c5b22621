package model

import "time"

// TaskStatus 清单任务状态枚举
type TaskStatus string

const (
	TaskStatusOpen    TaskStatus = "open"    // 未处理
	TaskStatusDone    TaskStatus = "done"    // 已完成
	TaskStatusSkipped TaskStatus = "skipped" // 已跳过
)

// TaskKind 任务类型判别：固定内置种类 + 自定义
type TaskKind string

const (
	TaskKindWeighIn      TaskKind = "weigh_in"      // 晨间称重（仅提醒）
	TaskKindMobility     TaskKind = "mobility"      // 晨间拉伸
	TaskKindSupplements  TaskKind = "supplements"   // 补剂
	TaskKindRead         TaskKind = "read"          // 阅读
	TaskKindJournal      TaskKind = "journal"       // 日记
	TaskKindPlanTomorrow TaskKind = "plan_tomorrow" // 规划明日
	TaskKindWindDown     TaskKind = "wind_down"     // 睡前收尾（仅提醒）
	TaskKindCustom       TaskKind = "custom"        // 用户自定义
)

// ChecklistTask 某一天的单个清单任务。归属 DayRecord，随其创建和销毁。
// 不变量：completed_at / skipped_at 互斥，且只在状态为 done / skipped 时非空。
type ChecklistTask struct {
	BaseModel
	TaskID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_checklist_tasks_task_id" json:"task_id"`
	DayRecordID int64     `gorm:"not null;index:idx_checklist_tasks_day" json:"day_record_id"`
	DayDate     time.Time `gorm:"type:date;not null" json:"day_date"`

	Kind        TaskKind `gorm:"type:varchar(32);not null" json:"kind"`
	Title       string   `gorm:"type:varchar(128);not null;default:''" json:"title"`       // 仅自定义任务
	Description string   `gorm:"type:varchar(512);not null;default:''" json:"description"` // 仅自定义任务

	ScheduledHour   int  `gorm:"not null" json:"scheduled_hour"`
	ScheduledMinute int  `gorm:"not null" json:"scheduled_minute"`
	SortOrder       int  `gorm:"not null" json:"sort_order"` // 计划时间升序 + 插入顺序，决定分配顺序
	PointEligible   bool `gorm:"not null;default:true" json:"point_eligible"`

	Status      TaskStatus `gorm:"type:varchar(16);not null;default:'open'" json:"status"`
	CompletedAt *time.Time `gorm:"type:timestamptz" json:"completed_at,omitempty"`
	SkippedAt   *time.Time `gorm:"type:timestamptz" json:"skipped_at,omitempty"`
}

// TableName 指定表名
func (ChecklistTask) TableName() string {
	return "checklist_tasks"
}

// DisplayTitle 内置任务给固定名称，自定义任务用用户标题。
func (t *ChecklistTask) DisplayTitle() string {
	if t.Kind == TaskKindCustom {
		return t.Title
	}
	if def, ok := builtInTitles[t.Kind]; ok {
		return def
	}
	return string(t.Kind)
}

// Complete 标记任务完成。状态迁移时设置 completed_at 并清除 skipped_at。
func (t *ChecklistTask) Complete(now time.Time) {
	t.Status = TaskStatusDone
	t.CompletedAt = &now
	t.SkippedAt = nil
}

// Skip 标记任务跳过。
func (t *ChecklistTask) Skip(now time.Time) {
	t.Status = TaskStatusSkipped
	t.SkippedAt = &now
	t.CompletedAt = nil
}

// Reopen 重置为未处理，两个时间戳同时清空。
func (t *ChecklistTask) Reopen() {
	t.Status = TaskStatusOpen
	t.CompletedAt = nil
	t.SkippedAt = nil
}

// CustomTaskTemplate 自定义任务模板。外部配置，不属于某一天；
// 只在新 DayRecord 创建时参与清单物化，日内修改不影响已生成的清单。
type CustomTaskTemplate struct {
	BaseModel
	PublicID        string `gorm:"type:uuid;not null;uniqueIndex:idx_custom_task_templates_public_id" json:"public_id"`
	Title           string `gorm:"type:varchar(128);not null" json:"title"`
	Description     string `gorm:"type:varchar(512);not null;default:''" json:"description"`
	ScheduledHour   int    `gorm:"not null" json:"scheduled_hour"`
	ScheduledMinute int    `gorm:"not null" json:"scheduled_minute"`
	Enabled         bool   `gorm:"not null;default:true" json:"enabled"`
}

// TableName 指定表名
func (CustomTaskTemplate) TableName() string {
	return "custom_task_templates"
}
