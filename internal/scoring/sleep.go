package scoring

import "math"

// 睡眠评分：四个独立封顶的子分相加，封顶 5.0 后取整到最近的 0.5。
// 函数必须对全部输入域有定义——任何可选输入缺失都给出确定分值，绝不报错。

// SleepInput 睡眠原始指标。除总时长外均可缺失。
type SleepInput struct {
	TotalSleepMin float64
	DeepSleepMin  *float64
	RemSleepMin   *float64
	AwakeMin      *float64
	TimeInBedMin  *float64
	HRV           *float64
	RestingHR     *float64
}

// SleepScore 计算 0-5 的睡眠分，步进 0.5。
func SleepScore(in SleepInput) float64 {
	total := durationPoints(in.TotalSleepMin) +
		efficiencyPoints(in.TotalSleepMin, in.TimeInBedMin) +
		deepSleepPoints(in.TotalSleepMin, in.DeepSleepMin) +
		hrvPoints(in.HRV)

	if total > 5.0 {
		total = 5.0
	}

	// 取整到最近的 0.5
	return math.Round(total*2) / 2
}

// durationPoints 时长子分（0-2）：7-9 小时满分。
func durationPoints(totalMin float64) float64 {
	switch {
	case totalMin >= 420 && totalMin <= 540:
		return 2.0
	case (totalMin >= 360 && totalMin < 420) || (totalMin > 540 && totalMin <= 600):
		return 1.5
	case totalMin >= 300 && totalMin < 360:
		return 1.0
	default:
		return 0.5
	}
}

// efficiencyPoints 效率子分（0-1.5）= 睡眠 / 在床时长。
// 在床时长未知时按疑点利益给固定 1.0。
func efficiencyPoints(totalMin float64, timeInBedMin *float64) float64 {
	if timeInBedMin == nil || *timeInBedMin <= 0 {
		return 1.0
	}

	eff := totalMin / *timeInBedMin
	switch {
	case eff >= 0.85:
		return 1.5
	case eff >= 0.75:
		return 1.0
	case eff >= 0.65:
		return 0.5
	default:
		return 0
	}
}

// deepSleepPoints 深睡占比子分（0-1.5）：15-25% 为理想区间。
// 深睡数据未知时给固定 0.75。
func deepSleepPoints(totalMin float64, deepMin *float64) float64 {
	if deepMin == nil {
		return 0.75
	}
	if totalMin <= 0 {
		return 0
	}

	frac := *deepMin / totalMin
	switch {
	case frac >= 0.15 && frac <= 0.25:
		return 1.5
	case frac >= 0.10 && frac < 0.15:
		return 1.0
	case frac >= 0.08:
		return 0.5
	default:
		return 0
	}
}

// hrvPoints HRV 加分（0-0.5）。缺失贡献 0，不给保底分。
func hrvPoints(hrv *float64) float64 {
	if hrv == nil {
		return 0
	}
	switch {
	case *hrv >= 50:
		return 0.5
	case *hrv >= 30:
		return 0.25
	default:
		return 0
	}
}
