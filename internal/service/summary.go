package service

import (
	"OnTrack/internal/model"
	"OnTrack/internal/model/dto"
	"OnTrack/internal/scoring"
)

// ToSummary 把日记录转换为响应视图：实时拆解各类别得分，
// 并附上每个任务在当前公平分配下的分值。
func ToSummary(rec *model.DayRecord) dto.DaySummary {
	in := scoringInput(rec)
	breakdown := scoring.DailyBreakdown(in)
	alloc := scoring.AllocatePoints(in.PointEligibleTaskIDs, in.RoutineBudget)

	tasks := make([]dto.TaskItem, 0, len(rec.Tasks))
	for i := range rec.Tasks {
		t := &rec.Tasks[i]
		tasks = append(tasks, dto.TaskItem{
			TaskID:          t.TaskID,
			Kind:            string(t.Kind),
			Title:           t.DisplayTitle(),
			Description:     t.Description,
			ScheduledHour:   t.ScheduledHour,
			ScheduledMinute: t.ScheduledMinute,
			PointEligible:   t.PointEligible,
			Points:          alloc[t.TaskID],
			Status:          string(t.Status),
			CompletedAt:     t.CompletedAt,
			SkippedAt:       t.SkippedAt,
		})
	}

	return dto.DaySummary{
		Date:             rec.DayDate.Format("2006-01-02"),
		ScoreProvisional: rec.ScoreProvisional,
		ScoreFinal:       rec.ScoreFinal,
		IsFinalized:      rec.IsFinalized,
		Breakdown: dto.ScoreBreakdown{
			Protein:   breakdown.Protein,
			Workout:   breakdown.Workout,
			Mile:      breakdown.Mile,
			Sleep:     breakdown.Sleep,
			Hydration: breakdown.Hydration,
			Routine:   breakdown.Routine,
		},

		ProteinGrams: rec.ProteinGrams,
		Calories:     rec.Calories,
		CarbsGrams:   rec.CarbsGrams,
		FatGrams:     rec.FatGrams,
		WaterOunces:  rec.WaterOunces,

		WorkoutCompleted:    rec.WorkoutCompleted,
		WorkoutTag:          rec.WorkoutTag,
		WorkoutQuality:      rec.WorkoutQuality,
		WorkoutAutoDetected: rec.WorkoutAutoDetected,

		MileCompleted:     rec.MileCompleted,
		MileDistanceMiles: rec.MileDistanceMiles,
		MileSeconds:       rec.MileSeconds,

		SleepDurationMin: rec.SleepDurationMin,
		SleepScore:       rec.SleepScore,

		StepCount:       rec.StepCount,
		ActiveEnergy:    rec.ActiveEnergy,
		ExerciseMinutes: rec.ExerciseMinutes,

		Tasks: tasks,
	}
}
