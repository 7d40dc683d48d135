package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewNormalizes(t *testing.T) {
	testCases := []struct {
		name string
		got  Date
		want string
	}{
		{"plain", New(2020, time.January, 15), "2020-01-15"},
		{"day overflow", New(2020, time.January, 32), "2020-02-01"},
		{"day zero is previous month end", New(2020, time.February, 0), "2020-01-31"},
		{"month overflow", New(2020, time.Month(13), 1), "2021-01-01"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got.String() != tc.want {
				t.Errorf("got %v want %v", tc.got, tc.want)
			}
		})
	}
}

func TestEndOfMonth(t *testing.T) {
	testCases := []struct {
		year  int
		month time.Month
		want  string
	}{
		{1991, time.January, "1991-01-31"},
		{2020, time.February, "2020-02-29"}, // leap year
		{2021, time.February, "2021-02-28"},
		{2020, time.December, "2020-12-31"},
	}
	for _, tc := range testCases {
		if got := EndOfMonth(tc.year, tc.month); got.String() != tc.want {
			t.Errorf("EndOfMonth(%d, %v) = %v want %v", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in        string
		want      string
		expectErr bool
	}{
		{"2020-01-01", "2020-01-01", false},
		{"2020-1-1", "2020-01-01", false},
		{"not a date", "", true},
		{"2020-13-01", "", true},
		{"", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			d, err := Parse(tc.in)
			if (err != nil) != tc.expectErr {
				t.Fatalf("Parse(%q) error = %v, want error: %v", tc.in, err, tc.expectErr)
			}
			if err == nil && d.String() != tc.want {
				t.Errorf("Parse(%q) = %v want %v", tc.in, d, tc.want)
			}
		})
	}
}

func TestSub(t *testing.T) {
	a, b := New(2020, time.March, 1), New(2020, time.February, 28)
	if got := a.Sub(b); got != 2 { // 2020 is a leap year
		t.Errorf("Sub() = %v want 2", got)
	}
	if got := b.Sub(a); got != -2 {
		t.Errorf("Sub() = %v want -2", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := New(2021, time.June, 7)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2021-06-07"` {
		t.Errorf("Marshal() = %s want %q", data, "2021-06-07")
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %v want %v", out, in)
	}
}
