package moexdata

import (
	"errors"
	"testing"
	"time"

	"github.com/qg0/moexdata/date"
)

func series(pairs ...float64) *Table {
	// pairs come as month, value, month, value... all in 2020.
	t := NewTable("CPI")
	for i := 0; i < len(pairs); i += 2 {
		t.Append(date.New(2020, time.Month(pairs[i]), 1), pairs[i+1])
	}
	return t
}

func TestConsistentAgreement(t *testing.T) {
	existing := series(1, 1.0, 2, 2.0)
	candidate := series(1, 1.0, 2, 2.0, 3, 3.0)
	if err := Consistent(existing, candidate, 0); err != nil {
		t.Errorf("Consistent() error = %v, want nil", err)
	}
}

func TestConsistentRejectsDrift(t *testing.T) {
	existing := series(1, 1.0, 2, 2.0)
	candidate := series(1, 1.0, 2, 9.0, 3, 3.0)

	err := Consistent(existing, candidate, 0)
	var drift *DataDriftError
	if !errors.As(err, &drift) {
		t.Fatalf("Consistent() error = %v, want DataDriftError", err)
	}
	if drift.Day != date.New(2020, time.February, 1) || drift.Have != 2.0 || drift.Got != 9.0 {
		t.Errorf("DataDriftError = %+v", drift)
	}
}

func TestConsistentRejectsMissingHistory(t *testing.T) {
	existing := series(1, 1.0, 2, 2.0)
	candidate := series(2, 2.0)

	err := Consistent(existing, candidate, 0)
	var shape *ShapeMismatchError
	if !errors.As(err, &shape) {
		t.Fatalf("Consistent() error = %v, want ShapeMismatchError", err)
	}
	if shape.Day != date.New(2020, time.January, 1) {
		t.Errorf("ShapeMismatchError.Day = %v want 2020-01-01", shape.Day)
	}
}

func TestConsistentTolerance(t *testing.T) {
	testCases := []struct {
		name     string
		have     float64
		got      float64
		tol      float64
		wantFail bool
	}{
		{"identical", 100.0, 100.0, 1e-6, false},
		{"within relative epsilon", 100.0, 100.00001, 1e-6, false},
		{"beyond relative epsilon", 100.0, 100.01, 1e-6, true},
		{"within absolute epsilon near zero", 0.0, 1e-9, 1e-6, false},
		{"beyond absolute epsilon near zero", 0.0, 1e-3, 1e-6, true},
		{"loose tolerance accepts more", 100.0, 100.01, 1e-3, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			existing := series(1, tc.have)
			candidate := series(1, tc.got)
			err := Consistent(existing, candidate, tc.tol)
			if (err != nil) != tc.wantFail {
				t.Errorf("Consistent(%v vs %v, tol %v) error = %v, want failure: %v", tc.have, tc.got, tc.tol, err, tc.wantFail)
			}
		})
	}
}

func TestConsistentColumnMismatch(t *testing.T) {
	existing := NewTable("CLOSE_PRICE", "VOLUME")
	existing.Append(date.New(2020, time.January, 1), 1.0, 2.0)
	candidate := series(1, 1.0)
	if err := Consistent(existing, candidate, 0); err == nil {
		t.Error("Consistent() with different columns = nil, want error")
	}
}

func TestConsistentEmptyExisting(t *testing.T) {
	// Nothing stored means nothing can mismatch.
	if err := Consistent(NewTable("CPI"), series(1, 1.0), 0); err != nil {
		t.Errorf("Consistent(empty existing) error = %v, want nil", err)
	}
}
