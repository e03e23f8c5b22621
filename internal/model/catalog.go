package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// 内置任务目录。清单的封闭半边：种类固定、时间固定、
// 是否计分固定。开放半边来自 CustomTaskTemplate。

type builtInTask struct {
	Kind          TaskKind
	Hour          int
	Minute        int
	PointEligible bool
}

// 目录顺序即插入顺序，计划时间相同时以此为准
var builtInCatalog = []builtInTask{
	{Kind: TaskKindWeighIn, Hour: 7, Minute: 0, PointEligible: false}, // 仅提醒
	{Kind: TaskKindMobility, Hour: 7, Minute: 30, PointEligible: true},
	{Kind: TaskKindSupplements, Hour: 8, Minute: 0, PointEligible: true},
	{Kind: TaskKindRead, Hour: 21, Minute: 0, PointEligible: true},
	{Kind: TaskKindJournal, Hour: 21, Minute: 30, PointEligible: true},
	{Kind: TaskKindPlanTomorrow, Hour: 21, Minute: 45, PointEligible: true},
	{Kind: TaskKindWindDown, Hour: 22, Minute: 0, PointEligible: false}, // 仅提醒
}

var builtInTitles = map[TaskKind]string{
	TaskKindWeighIn:      "Morning weigh-in",
	TaskKindMobility:     "Mobility work",
	TaskKindSupplements:  "Take supplements",
	TaskKindRead:         "Read 10 pages",
	TaskKindJournal:      "Journal",
	TaskKindPlanTomorrow: "Plan tomorrow",
	TaskKindWindDown:     "Wind down for bed",
}

// BuildChecklist 为某一天物化完整任务集：内置目录 + 启用的自定义模板。
// 只在 DayRecord 创建时调用一次，之后当日成员冻结。
// 排序：计划时间升序，时间相同保持插入顺序（内置在前，模板按创建顺序在后）。
func BuildChecklist(dayDate time.Time, templates []CustomTaskTemplate) []ChecklistTask {
	tasks := make([]ChecklistTask, 0, len(builtInCatalog)+len(templates))

	for _, b := range builtInCatalog {
		tasks = append(tasks, ChecklistTask{
			TaskID:          uuid.NewString(),
			DayDate:         dayDate,
			Kind:            b.Kind,
			ScheduledHour:   b.Hour,
			ScheduledMinute: b.Minute,
			PointEligible:   b.PointEligible,
			Status:          TaskStatusOpen,
		})
	}

	for _, tpl := range templates {
		if !tpl.Enabled {
			continue
		}
		tasks = append(tasks, ChecklistTask{
			TaskID:          uuid.NewString(),
			DayDate:         dayDate,
			Kind:            TaskKindCustom,
			Title:           tpl.Title,
			Description:     tpl.Description,
			ScheduledHour:   tpl.ScheduledHour,
			ScheduledMinute: tpl.ScheduledMinute,
			PointEligible:   true, // 自定义任务都计分
			Status:          TaskStatusOpen,
		})
	}

	// 稳定排序，时间相同的保持插入顺序
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.ScheduledHour != b.ScheduledHour {
			return a.ScheduledHour < b.ScheduledHour
		}
		return a.ScheduledMinute < b.ScheduledMinute
	})

	for i := range tasks {
		tasks[i].SortOrder = i
	}

	return tasks
}
