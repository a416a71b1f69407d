package testcases

import (
	"encoding/json"
)

// Flatten 把结果行展开成扁平有序的测试用例列表。
// 行可能是 result 值本身，也可能是带 result 键的记录（不同驱动返回形状不同）。
// 值本身可能是对象、对象数组、数组套数组，或其中任意一种的 JSON 字符串编码。
// 展开保持兄弟元素相对顺序；无法解析的元素丢弃，不中断整批。
func Flatten(rows []any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))

	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case []any:
			for _, sub := range val {
				walk(sub)
			}
		case map[string]any:
			// 对象是终点，不再往里拆
			out = append(out, val)
		case string:
			var parsed any
			if err := json.Unmarshal([]byte(val), &parsed); err == nil {
				walk(parsed)
			}
			// 解析失败说明是脏数据，丢弃
		case json.RawMessage:
			var parsed any
			if err := json.Unmarshal(val, &parsed); err == nil {
				walk(parsed)
			}
		}
		// 其余标量（数字、布尔、null）同样丢弃
	}

	for _, row := range rows {
		if rec, ok := row.(map[string]any); ok {
			if res, exists := rec["result"]; exists {
				walk(res)
				continue
			}
		}
		walk(row)
	}

	return out
}

// FlattenRaw 先把原始 JSON 列解码再展开。解码失败的行整行丢弃。
func FlattenRaw(raws []json.RawMessage) []map[string]any {
	rows := make([]any, 0, len(raws))
	for _, raw := range raws {
		if len(raw) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		rows = append(rows, v)
	}
	return Flatten(rows)
}
