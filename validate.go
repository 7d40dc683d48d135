package moexdata

import (
	"fmt"
	"math"

	"github.com/qg0/moexdata/date"
)

// DefaultTolerance is the numeric tolerance used to compare stored and
// downloaded values. Quotes and CPI values carry at most six meaningful
// digits, so a relative epsilon of 1e-6 separates representation noise
// from an actual upstream revision.
const DefaultTolerance = 1e-6

// Consistent checks freshly downloaded data against the stored table over
// the stored dates.
//
// Every date present in existing must be present in candidate — otherwise
// history vanished upstream and a ShapeMismatchError is returned. Values on
// shared dates must agree within tol, absolute or relative, or a
// DataDriftError is returned. Extra candidate rows outside existing's dates
// are ignored: new history is exactly what a refresh is after.
//
// A non-positive tol selects DefaultTolerance.
func Consistent(existing, candidate *Table, tol float64) error {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if len(existing.Columns()) != len(candidate.Columns()) {
		return fmt.Errorf("column mismatch: local %v, downloaded %v", existing.Columns(), candidate.Columns())
	}
	for i, name := range existing.Columns() {
		if candidate.Columns()[i] != name {
			return fmt.Errorf("column mismatch: local %v, downloaded %v", existing.Columns(), candidate.Columns())
		}
	}

	// Index the candidate by date. On duplicate dates the first row wins,
	// matching the order the source reported them in.
	byDay := make(map[date.Date]int, candidate.Len())
	for i := 0; i < candidate.Len(); i++ {
		if _, ok := byDay[candidate.Day(i)]; !ok {
			byDay[candidate.Day(i)] = i
		}
	}

	for i := 0; i < existing.Len(); i++ {
		day := existing.Day(i)
		j, ok := byDay[day]
		if !ok {
			return &ShapeMismatchError{Day: day}
		}
		have, got := existing.Row(i), candidate.Row(j)
		for c := range have {
			if !within(have[c], got[c], tol) {
				return &DataDriftError{Day: day, Column: existing.Columns()[c], Have: have[c], Got: got[c]}
			}
		}
	}
	return nil
}

// within reports whether a and b agree within tol, absolutely or relatively.
func within(a, b, tol float64) bool {
	diff := math.Abs(a - b)
	if diff <= tol {
		return true
	}
	return diff <= tol*math.Max(math.Abs(a), math.Abs(b))
}
