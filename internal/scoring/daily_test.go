package scoring

import "testing"

func TestDailyScoreAllZero(t *testing.T) {
	if got := DailyScore(DailyInput{}); got != 0 {
		t.Fatalf("DailyScore(zero) = %d, want 0", got)
	}
}

func TestDailyScoreRange(t *testing.T) {
	q5 := 5.0
	s5 := 5.0
	d480 := 480.0
	full := DailyInput{
		ProteinGrams:       300,
		ProteinTargetGrams: 190,

		WorkoutCompleted: true,
		WorkoutQuality:   &q5,

		MileCompleted: true,
		MileQuality:   &q5,

		SleepScore:       &s5,
		SleepDurationMin: &d480,

		WaterOunces:       200,
		WaterTargetOunces: 120,

		PointEligibleTaskIDs: []string{"a", "b"},
		RoutineBudget:        10,
		ChecklistDone:        map[string]bool{"a": true, "b": true},
	}

	got := DailyScore(full)
	if got != 100 {
		// 27+20+15+20+10+10 = 102，封顶 100
		t.Fatalf("DailyScore(full) = %d, want 100", got)
	}
}

func TestDailyScoreProteinBonusBoundary(t *testing.T) {
	atTarget := DailyScore(DailyInput{ProteinGrams: 190, ProteinTargetGrams: 190})
	justUnder := DailyScore(DailyInput{ProteinGrams: 189.5, ProteinTargetGrams: 190})

	if atTarget != 27 {
		t.Fatalf("protein at target = %d, want 27 (25 + 2 bonus)", atTarget)
	}
	if atTarget <= justUnder {
		t.Fatalf("bonus boundary: at-target %d should exceed just-under %d", atTarget, justUnder)
	}

	// 超出目标不再增加
	over := DailyScore(DailyInput{ProteinGrams: 400, ProteinTargetGrams: 190})
	if over != atTarget {
		t.Fatalf("protein over target = %d, want %d", over, atTarget)
	}
}

func TestDailyScoreProteinMonotonic(t *testing.T) {
	prev := -1
	for grams := 0.0; grams <= 250; grams += 5 {
		got := DailyScore(DailyInput{ProteinGrams: grams, ProteinTargetGrams: 190})
		if got < prev {
			t.Fatalf("protein score decreased at %v grams: %d < %d", grams, got, prev)
		}
		prev = got
	}
}

func TestDailyScoreZeroTargetClamps(t *testing.T) {
	tests := []struct {
		name string
		in   DailyInput
	}{
		{"zero protein target", DailyInput{ProteinGrams: 100, ProteinTargetGrams: 0}},
		{"negative protein target", DailyInput{ProteinGrams: 100, ProteinTargetGrams: -10}},
		{"zero water target", DailyInput{WaterOunces: 80, WaterTargetOunces: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DailyScore(tt.in); got != 0 {
				t.Errorf("DailyScore = %d, want 0 (ratio clamped)", got)
			}
		})
	}
}

func TestDailyScoreWorkoutDefaults(t *testing.T) {
	q := 4.0
	withQuality := DailyScore(DailyInput{WorkoutCompleted: true, WorkoutQuality: &q})
	noQuality := DailyScore(DailyInput{WorkoutCompleted: true})

	if withQuality != 18 { // 10 + 4*2
		t.Errorf("workout with quality = %d, want 18", withQuality)
	}
	if noQuality != 16 { // 10 + flat 6
		t.Errorf("workout without quality = %d, want 16", noQuality)
	}
}

func TestDailyScoreMileDefaults(t *testing.T) {
	q := 5.0
	withQuality := DailyScore(DailyInput{MileCompleted: true, MileQuality: &q})
	noQuality := DailyScore(DailyInput{MileCompleted: true})

	if withQuality != 15 { // 7 + 5*1.6
		t.Errorf("mile with quality = %d, want 15", withQuality)
	}
	if noQuality != 12 { // 7 + flat 5
		t.Errorf("mile without quality = %d, want 12", noQuality)
	}
}

func TestDailyScoreSleepDurationBonus(t *testing.T) {
	s := 4.0
	tests := []struct {
		name     string
		duration float64
		want     int
	}{
		{"seven hours", 420, 17}, // 4*3 + 5
		{"six hours", 370, 15},   // 4*3 + 3
		{"five hours", 310, 13},  // 4*3 + 1
		{"under five", 200, 12},  // 4*3 + 0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.duration
			got := DailyScore(DailyInput{SleepScore: &s, SleepDurationMin: &d})
			if got != tt.want {
				t.Errorf("sleep category = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDailyScoreChecklistAbsentTasksNotDone(t *testing.T) {
	in := DailyInput{
		PointEligibleTaskIDs: []string{"t1", "t2", "t3", "t4"},
		RoutineBudget:        10,
		ChecklistDone:        map[string]bool{"t1": true}, // 其余缺失视为未完成
	}

	if got := DailyScore(in); got != 3 {
		// t1 在顺序首位，分到 base 2 + 余数 1 = 3
		t.Fatalf("routine with one done = %d, want 3", got)
	}
}

func TestDailyBreakdownMatchesTotal(t *testing.T) {
	q := 3.0
	s := 4.5
	d := 430.0
	in := DailyInput{
		ProteinGrams:       150,
		ProteinTargetGrams: 190,
		WorkoutCompleted:   true,
		WorkoutQuality:     &q,
		SleepScore:         &s,
		SleepDurationMin:   &d,
		WaterOunces:        60,
		WaterTargetOunces:  120,
		PointEligibleTaskIDs: []string{"a", "b", "c"},
		RoutineBudget:        10,
		ChecklistDone:        map[string]bool{"b": true},
	}

	b := DailyBreakdown(in)
	sum := b.Protein + b.Workout + b.Mile + b.Sleep + b.Hydration + b.Routine
	got := DailyScore(in)

	if got < 0 || got > 100 {
		t.Fatalf("DailyScore = %d, out of range", got)
	}
	if diff := float64(got) - sum; diff > 0.5 || diff < -0.5 {
		t.Fatalf("breakdown sum %v disagrees with total %d", sum, got)
	}
}
