package model

import (
	"testing"
	"time"
)

func TestBuildChecklistBuiltInsOnly(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := BuildChecklist(day, nil)

	if len(tasks) != 7 {
		t.Fatalf("got %d tasks, want 7 built-ins", len(tasks))
	}

	wantOrder := []TaskKind{
		TaskKindWeighIn, TaskKindMobility, TaskKindSupplements,
		TaskKindRead, TaskKindJournal, TaskKindPlanTomorrow, TaskKindWindDown,
	}
	for i, kind := range wantOrder {
		if tasks[i].Kind != kind {
			t.Errorf("tasks[%d].Kind = %s, want %s", i, tasks[i].Kind, kind)
		}
		if tasks[i].SortOrder != i {
			t.Errorf("tasks[%d].SortOrder = %d, want %d", i, tasks[i].SortOrder, i)
		}
		if tasks[i].Status != TaskStatusOpen {
			t.Errorf("tasks[%d].Status = %s, want open", i, tasks[i].Status)
		}
	}

	// 仅提醒的两项不计分
	eligible := 0
	for _, task := range tasks {
		if task.PointEligible {
			eligible++
		}
	}
	if eligible != 5 {
		t.Fatalf("point-eligible built-ins = %d, want 5", eligible)
	}
}

func TestBuildChecklistMergesTemplatesByTime(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	templates := []CustomTaskTemplate{
		{PublicID: "a", Title: "Cold shower", ScheduledHour: 6, ScheduledMinute: 45, Enabled: true},
		{PublicID: "b", Title: "Walk dog", ScheduledHour: 7, ScheduledMinute: 30, Enabled: true},
		{PublicID: "c", Title: "Disabled", ScheduledHour: 12, ScheduledMinute: 0, Enabled: false},
	}

	tasks := BuildChecklist(day, templates)
	if len(tasks) != 9 {
		t.Fatalf("got %d tasks, want 9 (7 built-ins + 2 enabled templates)", len(tasks))
	}

	// 06:45 的自定义任务排第一
	if tasks[0].Kind != TaskKindCustom || tasks[0].Title != "Cold shower" {
		t.Fatalf("tasks[0] = %s %q, want custom Cold shower", tasks[0].Kind, tasks[0].Title)
	}
	// 07:30 时间相同：内置 mobility 在前（插入顺序），模板在后
	if tasks[2].Kind != TaskKindMobility {
		t.Fatalf("tasks[2].Kind = %s, want mobility before same-time template", tasks[2].Kind)
	}
	if tasks[3].Kind != TaskKindCustom || tasks[3].Title != "Walk dog" {
		t.Fatalf("tasks[3] = %s %q, want custom Walk dog", tasks[3].Kind, tasks[3].Title)
	}

	// 自定义任务总是计分
	for _, task := range tasks {
		if task.Kind == TaskKindCustom && !task.PointEligible {
			t.Fatalf("custom task %q must be point-eligible", task.Title)
		}
	}

	// 每个任务都有稳定标识
	seen := make(map[string]bool)
	for _, task := range tasks {
		if task.TaskID == "" || seen[task.TaskID] {
			t.Fatalf("task IDs must be unique and non-empty, got %q twice", task.TaskID)
		}
		seen[task.TaskID] = true
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	task := ChecklistTask{Status: TaskStatusOpen}
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	task.Complete(now)
	if task.Status != TaskStatusDone || task.CompletedAt == nil || task.SkippedAt != nil {
		t.Fatalf("after Complete: %+v", task)
	}

	// done -> skipped：时间戳互斥
	task.Skip(now.Add(time.Hour))
	if task.Status != TaskStatusSkipped || task.SkippedAt == nil || task.CompletedAt != nil {
		t.Fatalf("after Skip: %+v", task)
	}

	task.Reopen()
	if task.Status != TaskStatusOpen || task.CompletedAt != nil || task.SkippedAt != nil {
		t.Fatalf("after Reopen: %+v", task)
	}
}

func TestDisplayTitle(t *testing.T) {
	builtin := ChecklistTask{Kind: TaskKindJournal}
	if builtin.DisplayTitle() != "Journal" {
		t.Errorf("DisplayTitle() = %q, want Journal", builtin.DisplayTitle())
	}

	custom := ChecklistTask{Kind: TaskKindCustom, Title: "Cold shower"}
	if custom.DisplayTitle() != "Cold shower" {
		t.Errorf("DisplayTitle() = %q, want Cold shower", custom.DisplayTitle())
	}
}
