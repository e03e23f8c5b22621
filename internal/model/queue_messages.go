package model

// DayChangeMessage 应用日变更消息。检测器观测到应用日前进时发布，
// 由 worker 消费触发定格。载荷刻意很薄：消费方只需要知道新的应用日。
type DayChangeMessage struct {
	MessageID      string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	PreviousAppDay string `json:"previous_app_day"`
	NewAppDay      string `json:"new_app_day"`
	OccurredAt     string `json:"occurred_at"`
}

// DayFinalizedEvent 某一天定格完成后的事件消息（事件总线，供 UI / 通知层消费）。
type DayFinalizedEvent struct {
	MessageID  string `json:"message_id"`
	DayDate    string `json:"day_date"`
	ScoreFinal int    `json:"score_final"`
	OccurredAt string `json:"occurred_at"`
}
