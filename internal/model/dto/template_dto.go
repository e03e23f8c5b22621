package dto

// CreateTemplateRequest 新建自定义任务模板。
type CreateTemplateRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ScheduledHour   int    `json:"scheduled_hour"`
	ScheduledMinute int    `json:"scheduled_minute"`
}

// TemplateItem 模板视图。
type TemplateItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ScheduledHour   int    `json:"scheduled_hour"`
	ScheduledMinute int    `json:"scheduled_minute"`
	Enabled         bool   `json:"enabled"`
}

// CategoryOutcome 单个同步类别的结果。失败是诊断信息而不是同步级错误。
type CategoryOutcome struct {
	Category string `json:"category"`
	Applied  bool   `json:"applied"`
	Error    string `json:"error,omitempty"`
}

// SyncReport 一次同步调用的汇总。
type SyncReport struct {
	Date             string            `json:"date"`
	Mode             string            `json:"mode"` // full, quick
	ScoreProvisional int               `json:"score_provisional"`
	Outcomes         []CategoryOutcome `json:"outcomes"`
}
