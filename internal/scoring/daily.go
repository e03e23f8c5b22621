package scoring

import "math"

// 每日总分：各类别独立封顶后求和，总和封顶 100 并四舍五入。
// 所有比值对零或负目标做防御性钳制（比值=0），函数对全域有定义。

// DailyInput 每日总分输入。
type DailyInput struct {
	ProteinGrams       float64
	ProteinTargetGrams float64

	WorkoutCompleted bool
	WorkoutQuality   *float64 // 0-5

	MileCompleted bool
	MileQuality   *float64 // 0-5

	SleepScore       *float64 // 0-5，缺失则睡眠类别不得分
	SleepDurationMin *float64 // 时长加分独立于 0-5 分

	WaterOunces       float64
	WaterTargetOunces float64

	// 点分配：当前计分任务的稳定顺序 + 预算，每次评分重新分配，不做缓存
	PointEligibleTaskIDs []string
	RoutineBudget        int
	ChecklistDone        map[string]bool // 缺失的任务视为未完成
}

// Breakdown 各类别实际得分。
type Breakdown struct {
	Protein   float64
	Workout   float64
	Mile      float64
	Sleep     float64
	Hydration float64
	Routine   float64
}

// DailyScore 计算 0-100 的每日达成分。
func DailyScore(in DailyInput) int {
	b := DailyBreakdown(in)

	total := b.Protein + b.Workout + b.Mile + b.Sleep + b.Hydration + b.Routine
	if total > 100 {
		total = 100
	}

	return int(math.Round(total))
}

// DailyBreakdown 拆解各类别得分，总分即各项之和（封顶前）。
func DailyBreakdown(in DailyInput) Breakdown {
	var b Breakdown

	// 蛋白质：比值 × 25，达标 +2 奖励，小计封顶 27
	b.Protein = safeRatio(in.ProteinGrams, in.ProteinTargetGrams) * 25
	if in.ProteinTargetGrams > 0 && in.ProteinGrams >= in.ProteinTargetGrams {
		b.Protein += 2
	}
	if b.Protein > 27 {
		b.Protein = 27
	}

	// 训练：完成 +10，质量分 ×2（0-10），无评分给默认 6
	if in.WorkoutCompleted {
		b.Workout = 10
		if in.WorkoutQuality != nil {
			b.Workout += clamp(*in.WorkoutQuality, 0, 5) * 2
		} else {
			b.Workout += 6
		}
	}

	// 一英里：完成 +7，质量分 ×1.6（0-8），无评分给默认 5
	if in.MileCompleted {
		b.Mile = 7
		if in.MileQuality != nil {
			b.Mile += clamp(*in.MileQuality, 0, 5) * 1.6
		} else {
			b.Mile += 5
		}
	}

	// 睡眠：0-5 分 ×3，外加独立的时长加分
	if in.SleepScore != nil {
		b.Sleep = clamp(*in.SleepScore, 0, 5) * 3
	}
	if in.SleepDurationMin != nil {
		switch d := *in.SleepDurationMin; {
		case d >= 420:
			b.Sleep += 5
		case d >= 360:
			b.Sleep += 3
		case d >= 300:
			b.Sleep += 1
		}
	}

	// 饮水
	b.Hydration = safeRatio(in.WaterOunces, in.WaterTargetOunces) * 10

	// 清单：当前分配下，已完成计分任务的分值之和
	alloc := AllocatePoints(in.PointEligibleTaskIDs, in.RoutineBudget)
	for id, pts := range alloc {
		if in.ChecklistDone[id] {
			b.Routine += float64(pts)
		}
	}

	return b
}

// safeRatio 比值钳制到 [0,1]，目标为零或负时返回 0 而不是除法错误。
func safeRatio(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	r := value / target
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
