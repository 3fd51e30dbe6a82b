package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in   any
		want ID
		ok   bool
	}{
		{5, 5, true},
		{int64(5), 5, true},
		{5.0, 5, true},
		{"5", 5, true},
		{" 5 ", 5, true},
		{"5.0", 5, true},
		{json.Number("12"), 12, true},
		{5.5, 0, false},
		{"5.5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{math.NaN(), 0, false},
		{nil, 0, false},
		{true, 0, false},
		{math.Pow(2, 63), 0, false},
		{"9223372036854775808", 0, false},
		{-math.Pow(2, 63), math.MinInt64, true},
		{^uint(0), 0, false},
		{"9223372036854775807", math.MaxInt64, true},
	}
	for _, tc := range tests {
		got, ok := ParseID(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseID(%#v) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestID_JSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":7,"b":"7"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != 7 || v.B != 7 {
		t.Fatalf("got %d %d", v.A, v.B)
	}
	b, _ := json.Marshal(v)
	if string(b) != `{"a":7,"b":7}` {
		t.Fatalf("ids should marshal as numbers: %s", b)
	}
	if err := json.Unmarshal([]byte(`{"a":"seven"}`), &v); err == nil {
		t.Fatalf("want error for non-numeric id")
	}
}
