package testcases

import (
	"strings"
)

// 优先级是封闭集合，大小写不敏感
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// SummarizePriorities 统计各优先级的用例数。
// 三个 key 恒存在；priority 缺失、非字符串或不在集合内的用例不计入任何一档。
func SummarizePriorities(records []map[string]any) map[string]int {
	counts := map[string]int{
		PriorityHigh:   0,
		PriorityMedium: 0,
		PriorityLow:    0,
	}

	for _, rec := range records {
		raw, ok := rec["priority"].(string)
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case PriorityHigh:
			counts[PriorityHigh]++
		case PriorityMedium:
			counts[PriorityMedium]++
		case PriorityLow:
			counts[PriorityLow]++
		}
	}

	return counts
}
