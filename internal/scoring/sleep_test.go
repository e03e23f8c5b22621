package scoring

import "testing"

func f(v float64) *float64 { return &v }

func TestSleepScoreFullNight(t *testing.T) {
	// 8h 睡眠、90.6% 效率、20% 深睡、HRV 60 -> 子分 2.0+1.5+1.5+0.5 = 5.5，封顶 5
	got := SleepScore(SleepInput{
		TotalSleepMin: 480,
		DeepSleepMin:  f(96),
		RemSleepMin:   f(120),
		AwakeMin:      f(10),
		TimeInBedMin:  f(530),
		HRV:           f(60),
		RestingHR:     f(55),
	})
	if got != 5.0 {
		t.Fatalf("SleepScore = %v, want 5.0", got)
	}
}

func TestSleepScoreDurationBands(t *testing.T) {
	tests := []struct {
		name     string
		totalMin float64
		want     float64
	}{
		{"seven hours lower bound", 420, 2.0},
		{"nine hours upper bound", 540, 2.0},
		{"six hours", 360, 1.5},
		{"just under seven", 419, 1.5},
		{"nine and a half", 570, 1.5},
		{"five hours", 300, 1.0},
		{"four hours", 240, 0.5},
		{"zero", 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := durationPoints(tt.totalMin); got != tt.want {
				t.Errorf("durationPoints(%v) = %v, want %v", tt.totalMin, got, tt.want)
			}
		})
	}
}

func TestSleepScoreEfficiency(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		tib   *float64
		want  float64
	}{
		{"85 percent", 425, f(500), 1.5},
		{"75 percent", 375, f(500), 1.0},
		{"65 percent", 325, f(500), 0.5},
		{"below 65", 300, f(500), 0},
		{"unknown time in bed gets benefit of the doubt", 480, nil, 1.0},
		{"zero time in bed treated as unknown", 480, f(0), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := efficiencyPoints(tt.total, tt.tib); got != tt.want {
				t.Errorf("efficiencyPoints = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSleepScoreDeepFraction(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		deep  *float64
		want  float64
	}{
		{"ideal 20 percent", 480, f(96), 1.5},
		{"12 percent", 480, f(57.6), 1.0},
		{"9 percent", 480, f(43.2), 0.5},
		{"too much deep still half point", 480, f(150), 0.5}, // >25% 落入 >=8% 分支
		{"below 8 percent", 480, f(20), 0},
		{"unknown deep sleep", 480, nil, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deepSleepPoints(tt.total, tt.deep); got != tt.want {
				t.Errorf("deepSleepPoints = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSleepScoreTotalOverDomain(t *testing.T) {
	// 可选项全缺失也要给出确定分值，且结果总在 [0,5]
	inputs := []SleepInput{
		{},
		{TotalSleepMin: -100},
		{TotalSleepMin: 10000},
		{TotalSleepMin: 480},
		{TotalSleepMin: 480, HRV: f(-5)},
		{TotalSleepMin: 480, DeepSleepMin: f(0), TimeInBedMin: f(480), HRV: f(200)},
	}

	for _, in := range inputs {
		got := SleepScore(in)
		if got < 0 || got > 5 {
			t.Errorf("SleepScore(%+v) = %v, out of [0,5]", in, got)
		}
		// 步进 0.5
		if got*2 != float64(int(got*2)) {
			t.Errorf("SleepScore(%+v) = %v, not a half step", in, got)
		}
	}
}

func TestSleepScoreAbsentHRVNoBonus(t *testing.T) {
	withHRV := SleepScore(SleepInput{TotalSleepMin: 480, TimeInBedMin: f(530), DeepSleepMin: f(96), HRV: f(60)})
	without := SleepScore(SleepInput{TotalSleepMin: 480, TimeInBedMin: f(530), DeepSleepMin: f(96)})

	if without > withHRV {
		t.Fatalf("absent HRV scored higher: %v > %v", without, withHRV)
	}
	if without != 5.0 {
		// 2.0 + 1.5 + 1.5 = 5.0，HRV 缺失不给保底
		t.Fatalf("SleepScore without HRV = %v, want 5.0", without)
	}
}
