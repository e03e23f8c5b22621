package schedule

import (
	"sync"
	"time"
)

// 应用日（App Day）：以凌晨 cutoff（默认 4 点）而不是午夜作为日界。
// 凌晨 4 点前的时刻仍属于前一个日历日，避免熬夜录入被划进第二天。

// AppDay 计算某一时刻所属的应用日，返回该日在 t 时区的零点。
func AppDay(t time.Time, cutoffHour int) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if t.Hour() < cutoffHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// BoundaryDetector 进程级应用日观察者。持有最近一次观测到的应用日，
// 应用日前进时触发回调。显式注入而不是单例，便于测试注入时钟。
type BoundaryDetector struct {
	mu         sync.Mutex
	cutoffHour int
	lastAppDay time.Time
	onChange   func(prev, next time.Time)
}

// NewBoundaryDetector 创建检测器并以 now 初始化最近观测值。
// onChange 在应用日前进时被调用（持锁外执行）。
func NewBoundaryDetector(now time.Time, cutoffHour int, onChange func(prev, next time.Time)) *BoundaryDetector {
	return &BoundaryDetector{
		cutoffHour: cutoffHour,
		lastAppDay: AppDay(now, cutoffHour),
		onChange:   onChange,
	}
}

// Current 返回最近观测到的应用日。
func (d *BoundaryDetector) Current() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastAppDay
}

// Refresh 用给定时刻重新判定应用日。发生前进时返回 changed=true 并触发回调。
// 只做时钟比较，永不阻塞；应用回到前台或定时器触发时调用。
func (d *BoundaryDetector) Refresh(now time.Time) (changed bool, prev, next time.Time) {
	d.mu.Lock()
	next = AppDay(now, d.cutoffHour)
	prev = d.lastAppDay

	if !next.After(prev) {
		d.mu.Unlock()
		return false, prev, prev
	}

	d.lastAppDay = next
	d.mu.Unlock()

	if d.onChange != nil {
		d.onChange(prev, next)
	}
	return true, prev, next
}
