package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoercibleInt は JSON の数値または数値文字列から整数へ変換される値です。
// 変換できない値でもデコード自体は失敗させず、バリデーション層で報告できるように状態を保持します。
type CoercibleInt struct {
	// Present はフィールドが null 以外で送られたかどうかです。
	Present bool
	// Numeric は値が数値として解釈できたかどうかです。
	Numeric bool
	Value   float64
}

// UnmarshalJSON は number / "number" / true / false / null を受け付けます。
// true は 1、false は 0 として扱います。
func (c *CoercibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = CoercibleInt{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	c.Present = true

	switch {
	case bytes.Equal(data, []byte("true")):
		c.Numeric, c.Value = true, 1
		return nil
	case bytes.Equal(data, []byte("false")):
		c.Numeric = true
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			// 空文字は 0 として扱う
			c.Numeric = true
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	c.Numeric = true
	c.Value = f
	return nil
}

// IsInteger は値が小数部を持たないかどうかを返します。
func (c CoercibleInt) IsInteger() bool {
	return c.Numeric && c.Value == math.Trunc(c.Value)
}

// Int は整数値を返します。IsInteger が true の場合のみ意味を持ちます。
func (c CoercibleInt) Int() int {
	return int(c.Value)
}
