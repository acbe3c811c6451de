// Package wire 负责领域模型与保存/加载接口 JSON（布尔值用整数表示）之间的转换
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag 以 0/1 传输的布尔值，解码时也接受 "0"/"1" 和 true/false
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	v, err := parseFlag(b)
	if err != nil {
		return err
	}
	*f = Flag(v)
	return nil
}

func flagOf(v bool) *Flag {
	f := Flag(v)
	return &f
}

// CorrectFlag 选项是否正确，编码为字符串 "0" 和 "1"
type CorrectFlag bool

func (f CorrectFlag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"1"`), nil
	}
	return []byte(`"0"`), nil
}

func (f *CorrectFlag) UnmarshalJSON(b []byte) error {
	v, err := parseFlag(b)
	if err != nil {
		return err
	}
	*f = CorrectFlag(v)
	return nil
}

func parseFlag(b []byte) (bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return false, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return false, err
		}
		return AsBool(s)
	}
	switch string(b) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return false, fmt.Errorf("invalid flag %s", b)
	}
	return n != 0, nil
}

// AsBool 解析设置中各种形式的布尔值
func AsBool(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case Flag:
		return bool(x), nil
	case CorrectFlag:
		return bool(x), nil
	case int:
		return x != 0, nil
	case int64:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case json.Number:
		f, err := x.Float64()
		return f != 0, err
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "0", "false", "off", "no":
			return false, nil
		case "1", "true", "on", "yes":
			return true, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f != 0, nil
		}
		return false, fmt.Errorf("invalid boolean %q", x)
	default:
		return false, fmt.Errorf("invalid boolean of type %T", v)
	}
}
