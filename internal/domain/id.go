package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is the canonical property identifier. Every id entering the system is
// normalized to an ID before it is stored or compared.
type ID int64

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseID normalizes a raw identifier. Numbers and numeric strings
// ("5", " 5 ", "5.0") yield the same ID; anything else reports false.
func ParseID(v any) (ID, bool) {
	switch t := v.(type) {
	case ID:
		return t, true
	case int:
		return ID(t), true
	case int32:
		return ID(t), true
	case int64:
		return ID(t), true
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, false
		}
		return ID(t), true
	case uint32:
		return ID(t), true
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case json.Number:
		return ParseID(string(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ID(n), true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return fromFloat(f)
	}
	return 0, false
}

func fromFloat(f float64) (ID, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return ID(f), true
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalJSON accepts both 7 and "7". Older snapshots carry string ids.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	var raw any
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = s
	} else {
		raw = json.Number(string(b))
	}
	v, ok := ParseID(raw)
	if !ok {
		return fmt.Errorf("domain: invalid id %s", b)
	}
	*id = v
	return nil
}
