package duration

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"10m", 600, true},
		{"1h", 3600, true},
		{"2d", 172800, true},
		{"1w", 604800, true},
		{"3H", 10800, true},
		{"0m", 0, true},
		{"007m", 420, true},
		{"", 0, false},
		{"m", 0, false},
		{"10", 0, false},
		{"10s", 0, false},
		{"10y", 0, false},
		{"-5m", 0, false},
		{"1.5h", 0, false},
		{" 10m", 0, false},
		{"10m ", 0, false},
		{"10mx", 0, false},
		{"1h30m", 0, false},
		{"99999999999999999999m", 0, false},
		{"9223372036854775807w", 0, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Parse(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseLargestRepresentable(t *testing.T) {
	amount := maxSeconds / 604800
	got, ok := Parse(strconv.FormatInt(amount, 10) + "w")
	if !ok {
		t.Fatalf("Parse(%dw) should succeed", amount)
	}
	if got != amount*604800 {
		t.Errorf("Parse(%dw) = %d, want %d", amount, got, amount*604800)
	}
	if _, ok := Parse(strconv.FormatInt(amount+1, 10) + "w"); ok {
		t.Errorf("Parse(%dw) should overflow", amount+1)
	}
}

func TestParsePositive(t *testing.T) {
	got, err := ParsePositive("90m")
	if err != nil {
		t.Fatalf("ParsePositive(90m) error: %v", err)
	}
	if got != 90*time.Minute {
		t.Errorf("ParsePositive(90m) = %v, want %v", got, 90*time.Minute)
	}

	if _, err := ParsePositive("0h"); !errors.Is(err, ErrZeroDuration) {
		t.Errorf("ParsePositive(0h) error = %v, want ErrZeroDuration", err)
	}
	if _, err := ParsePositive("soon"); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("ParsePositive(soon) error = %v, want ErrInvalidDuration", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0m"},
		{59, "0m"},
		{60, "1m"},
		{5400, "1h 30m"},
		{86400, "1d"},
		{604800 + 2*86400 + 3*3600 + 4*60, "1w 2d 3h 4m"},
	}

	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
