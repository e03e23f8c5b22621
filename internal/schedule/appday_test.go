package schedule

import (
	"testing"
	"time"
)

func TestAppDayCutoff(t *testing.T) {
	loc := time.UTC
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{"03:59 belongs to previous day", time.Date(2025, 3, 10, 3, 59, 0, 0, loc), d.AddDate(0, 0, -1)},
		{"04:01 belongs to same day", time.Date(2025, 3, 10, 4, 1, 0, 0, loc), d},
		{"04:00 exactly is the new day", time.Date(2025, 3, 10, 4, 0, 0, 0, loc), d},
		{"midnight belongs to previous day", time.Date(2025, 3, 10, 0, 0, 0, 0, loc), d.AddDate(0, 0, -1)},
		{"noon", time.Date(2025, 3, 10, 12, 0, 0, 0, loc), d},
		{"23:59", time.Date(2025, 3, 10, 23, 59, 0, 0, loc), d},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AppDay(tt.at, 4); !got.Equal(tt.want) {
				t.Errorf("AppDay(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestBoundaryDetectorFiresOnceOnAdvance(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 3, 10, 22, 0, 0, 0, loc)

	fired := 0
	var gotPrev, gotNext time.Time
	d := NewBoundaryDetector(start, 4, func(prev, next time.Time) {
		fired++
		gotPrev, gotNext = prev, next
	})

	// 同一应用日内的刷新不触发
	if changed, _, _ := d.Refresh(start.Add(2 * time.Hour)); changed { // 次日 00:00，仍是 3-10
		t.Fatal("refresh before cutoff should not change the app day")
	}
	if changed, _, _ := d.Refresh(time.Date(2025, 3, 11, 3, 59, 0, 0, loc)); changed {
		t.Fatal("03:59 next calendar day is still the same app day")
	}

	// 越过日界
	changed, _, _ := d.Refresh(time.Date(2025, 3, 11, 4, 1, 0, 0, loc))
	if !changed {
		t.Fatal("crossing the cutoff should advance the app day")
	}
	if fired != 1 {
		t.Fatalf("onChange fired %d times, want 1", fired)
	}
	if !gotPrev.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, loc)) {
		t.Errorf("prev = %v, want 2025-03-10", gotPrev)
	}
	if !gotNext.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, loc)) {
		t.Errorf("next = %v, want 2025-03-11", gotNext)
	}

	// 重复刷新同一应用日不再触发
	if changed, _, _ := d.Refresh(time.Date(2025, 3, 11, 12, 0, 0, 0, loc)); changed {
		t.Fatal("same app day refresh fired again")
	}
	if fired != 1 {
		t.Fatalf("onChange fired %d times after settle, want 1", fired)
	}
}

func TestBoundaryDetectorClockSetBack(t *testing.T) {
	loc := time.UTC
	d := NewBoundaryDetector(time.Date(2025, 3, 11, 12, 0, 0, 0, loc), 4, nil)

	// 时钟回拨不应把应用日倒退
	changed, _, _ := d.Refresh(time.Date(2025, 3, 10, 12, 0, 0, 0, loc))
	if changed {
		t.Fatal("clock set back must not regress the app day")
	}
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, loc)
	if !d.Current().Equal(want) {
		t.Fatalf("Current() = %v, want %v", d.Current(), want)
	}
}
