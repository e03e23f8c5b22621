package scoring

// 清单公平分配：固定预算 B 在 n 个计分任务间的整数分配。
// base = B div n，remainder = B mod n，按稳定顺序给前 remainder 个任务各 +1。
// 保证 n > 0 时分配总和恰好等于 B，清单类别永远不会超出预算。

// AllocatePoints 按任务顺序分配整数分值。n = 0 时返回空映射。
func AllocatePoints(orderedTaskIDs []string, budget int) map[string]int {
	alloc := make(map[string]int, len(orderedTaskIDs))
	n := len(orderedTaskIDs)
	if n == 0 || budget <= 0 {
		return alloc
	}

	base := budget / n
	remainder := budget % n

	for i, id := range orderedTaskIDs {
		pts := base
		if i < remainder {
			pts++
		}
		alloc[id] = pts
	}

	return alloc
}
