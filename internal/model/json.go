package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// JSONValue 原样存取的 JSON 列。结果 payload 的形状由写入方（工作进程）决定，
// 这里不做任何解释，读路径再做容错展开。
type JSONValue []byte

func (v JSONValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return string(v), nil
}

func (v *JSONValue) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	switch data := value.(type) {
	case []byte:
		*v = append((*v)[:0], data...)
	case string:
		*v = JSONValue(data)
	default:
		return fmt.Errorf("unsupported type for JSONValue: %T", value)
	}
	return nil
}

func (v JSONValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

func (v *JSONValue) UnmarshalJSON(data []byte) error {
	if v == nil {
		return errors.New("model.JSONValue: UnmarshalJSON on nil pointer")
	}
	*v = append((*v)[:0], data...)
	return nil
}
