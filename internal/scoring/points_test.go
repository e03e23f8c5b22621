package scoring

import (
	"fmt"
	"testing"
)

func TestAllocatePointsFourTasks(t *testing.T) {
	alloc := AllocatePoints([]string{"t1", "t2", "t3", "t4"}, 10)

	// base=2 remainder=2，前两个任务 +1
	want := map[string]int{"t1": 3, "t2": 3, "t3": 2, "t4": 2}
	for id, pts := range want {
		if alloc[id] != pts {
			t.Errorf("alloc[%s] = %d, want %d", id, alloc[id], pts)
		}
	}
}

func TestAllocatePointsEmpty(t *testing.T) {
	if alloc := AllocatePoints(nil, 10); len(alloc) != 0 {
		t.Fatalf("AllocatePoints(nil) = %v, want empty", alloc)
	}
}

func TestAllocatePointsSumInvariant(t *testing.T) {
	for _, budget := range []int{1, 7, 10, 25, 100} {
		for n := 1; n <= 30; n++ {
			ids := make([]string, n)
			for i := range ids {
				ids[i] = fmt.Sprintf("task-%d", i)
			}

			alloc := AllocatePoints(ids, budget)
			sum := 0
			for _, pts := range alloc {
				if pts < 0 {
					t.Fatalf("negative allocation for n=%d budget=%d", n, budget)
				}
				sum += pts
			}

			if sum != budget {
				t.Fatalf("sum invariant broken: n=%d budget=%d sum=%d", n, budget, sum)
			}
		}
	}
}

func TestAllocatePointsDeterministicOrder(t *testing.T) {
	ids := []string{"a", "b", "c"}
	first := AllocatePoints(ids, 10)
	second := AllocatePoints(ids, 10)

	for id := range first {
		if first[id] != second[id] {
			t.Fatalf("allocation not deterministic for %s", id)
		}
	}

	// 余数按顺序给前面的任务
	if first["a"] != 4 || first["b"] != 3 || first["c"] != 3 {
		t.Fatalf("unexpected allocation: %v", first)
	}
}

func TestAllocatePointsMoreTasksThanBudget(t *testing.T) {
	ids := make([]string, 15)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%d", i)
	}

	alloc := AllocatePoints(ids, 10)
	sum := 0
	for _, pts := range alloc {
		sum += pts
	}
	if sum != 10 {
		t.Fatalf("sum = %d, want 10", sum)
	}
	// 前 10 个任务各 1 分，其余 0 分
	if alloc["t0"] != 1 || alloc["t9"] != 1 || alloc["t10"] != 0 {
		t.Fatalf("unexpected spread: %v", alloc)
	}
}
