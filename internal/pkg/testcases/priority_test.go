package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizePriorities(t *testing.T) {
	records := []map[string]any{
		{"priority": "High"},
		{"priority": "high"},
		{"priority": "Low"},
		{},
	}

	got := SummarizePriorities(records)

	assert.Equal(t, map[string]int{"high": 2, "medium": 0, "low": 1}, got)
}

func TestSummarizePriorities_Empty(t *testing.T) {
	got := SummarizePriorities(nil)

	// 三个 key 恒存在，默认为 0
	assert.Equal(t, map[string]int{"high": 0, "medium": 0, "low": 0}, got)
}

func TestSummarizePriorities_MalformedValues(t *testing.T) {
	records := []map[string]any{
		{"priority": "critical"},      // 不在封闭集合内
		{"priority": float64(3)},      // 非字符串
		{"priority": nil},             //
		{"priority": " MEDIUM "},      // 空白 + 大小写
		{"severity": "high"},          // 字段名不对
		{"priority": "medium\n"},      // 尾部换行
	}

	got := SummarizePriorities(records)

	assert.Equal(t, map[string]int{"high": 0, "medium": 2, "low": 0}, got)
}
