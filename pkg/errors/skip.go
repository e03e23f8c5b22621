package errors

// SkipMessageError 消费者幂等检查命中时返回，表示该消息应被 Ack 掉而不是重试。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "message skipped: " + e.Reason
}
