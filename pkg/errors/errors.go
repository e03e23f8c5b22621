package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 日记录模块错误。
var (
	DayFinalized = Definition{Code: "DAY_FINALIZED", Message: "Day already finalized"}
	DayNotFound  = Definition{Code: "DAY_NOT_FOUND", Message: "Day record not found"}
	InvalidDate  = Definition{Code: "INVALID_DATE", Message: "Invalid date format"}
	FutureDate   = Definition{Code: "FUTURE_DATE", Message: "Date is in the future"}
)

// 清单任务模块错误。
var (
	TaskNotFound      = Definition{Code: "TASK_NOT_FOUND", Message: "Checklist task not found"}
	TaskStatusInvalid = Definition{Code: "TASK_STATUS_INVALID", Message: "Checklist task status transition invalid"}
)

// 自定义任务模板错误。
var (
	TemplateLimitReached = Definition{Code: "TEMPLATE_LIMIT_REACHED", Message: "Custom task template limit reached"}
	TemplateNotFound     = Definition{Code: "TEMPLATE_NOT_FOUND", Message: "Custom task template not found"}
	TemplateTimeInvalid  = Definition{Code: "TEMPLATE_TIME_INVALID", Message: "Scheduled time invalid"}
)

// 数据同步模块错误。
var (
	ProviderUnauthorized = Definition{Code: "PROVIDER_UNAUTHORIZED", Message: "Health data provider not authorized"}
	SyncInProgress       = Definition{Code: "SYNC_IN_PROGRESS", Message: "Sync already in progress"}
)

// 鉴权与通用错误。
var (
	Unauthorized    = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidRequest  = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	DayFinalized.Code:         DayFinalized,
	DayNotFound.Code:          DayNotFound,
	InvalidDate.Code:          InvalidDate,
	FutureDate.Code:           FutureDate,
	TaskNotFound.Code:         TaskNotFound,
	TaskStatusInvalid.Code:    TaskStatusInvalid,
	TemplateLimitReached.Code: TemplateLimitReached,
	TemplateNotFound.Code:     TemplateNotFound,
	TemplateTimeInvalid.Code:  TemplateTimeInvalid,
	ProviderUnauthorized.Code: ProviderUnauthorized,
	SyncInProgress.Code:       SyncInProgress,
	Unauthorized.Code:         Unauthorized,
	InvalidRequest.Code:       InvalidRequest,
	TooManyRequests.Code:      TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
