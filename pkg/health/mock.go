package health

import (
	"context"
	"sync"
	"time"
)

// MockProvider 内存实现，开发环境与测试用。
// 按日期键存放预置读数，未预置的类别返回"无数据"而不是错误。
type MockProvider struct {
	mu         sync.RWMutex
	authorized bool

	sleep    map[string]*SleepReading
	workouts map[string][]WorkoutReading
	totals   map[string]map[Metric]float64

	// 可选的错误注入，模拟单类别抓取失败
	SleepErr    error
	WorkoutsErr error
	TotalErrs   map[Metric]error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		authorized: true,
		sleep:      make(map[string]*SleepReading),
		workouts:   make(map[string][]WorkoutReading),
		totals:     make(map[string]map[Metric]float64),
	}
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (m *MockProvider) SetAuthorized(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authorized = v
}

func (m *MockProvider) SetSleep(date time.Time, r *SleepReading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleep[dateKey(date)] = r
}

func (m *MockProvider) SetWorkouts(date time.Time, ws []WorkoutReading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workouts[dateKey(date)] = ws
}

func (m *MockProvider) SetDailyTotal(date time.Time, metric Metric, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.totals[dateKey(date)] == nil {
		m.totals[dateKey(date)] = make(map[Metric]float64)
	}
	m.totals[dateKey(date)][metric] = v
}

func (m *MockProvider) Authorized(ctx context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authorized
}

func (m *MockProvider) FetchSleep(ctx context.Context, date time.Time) (*SleepReading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.SleepErr != nil {
		return nil, m.SleepErr
	}
	return m.sleep[dateKey(date)], nil
}

func (m *MockProvider) FetchWorkouts(ctx context.Context, date time.Time) ([]WorkoutReading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.WorkoutsErr != nil {
		return nil, m.WorkoutsErr
	}
	return m.workouts[dateKey(date)], nil
}

func (m *MockProvider) FetchDailyTotal(ctx context.Context, metric Metric, date time.Time) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.TotalErrs[metric]; err != nil {
		return 0, false, err
	}
	day, ok := m.totals[dateKey(date)]
	if !ok {
		return 0, false, nil
	}
	v, ok := day[metric]
	return v, ok, nil
}
