package moexdata

import (
	"testing"
	"time"

	"github.com/qg0/moexdata/date"
)

func TestTableAppendKeepsChronologicalOrder(t *testing.T) {
	tab := NewTable("CLOSE_PRICE")
	d1 := date.New(2020, time.March, 2)
	d2 := date.New(2020, time.January, 15)
	d3 := date.New(2020, time.February, 1)

	tab.Append(d1, 3.0).Append(d2, 1.0).Append(d3, 2.0)

	want := []date.Date{d2, d3, d1}
	for i, day := range want {
		if tab.Day(i) != day {
			t.Errorf("Day(%d) = %v want %v", i, tab.Day(i), day)
		}
	}
	if tab.Row(0)[0] != 1.0 || tab.Row(2)[0] != 3.0 {
		t.Errorf("rows did not move with their dates: %v %v", tab.Row(0), tab.Row(2))
	}
}

func TestTableAppendKeepsDuplicateOrder(t *testing.T) {
	// Some sources pay two dividends on the same date; the table must keep
	// both rows in the order they arrived.
	tab := NewTable("DIVIDENDS")
	day := date.New(2017, time.June, 20)
	tab.Append(day, 24.44).Append(day, 27.73)

	if tab.Len() != 2 {
		t.Fatalf("Len() = %d want 2", tab.Len())
	}
	if tab.Row(0)[0] != 24.44 || tab.Row(1)[0] != 27.73 {
		t.Errorf("duplicate rows reordered: %v %v", tab.Row(0), tab.Row(1))
	}
}

func TestTableAppendArityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Append with wrong arity did not panic")
		}
	}()
	NewTable("CLOSE_PRICE", "VOLUME").Append(date.New(2020, time.January, 1), 1.0)
}

func TestTableFirstLast(t *testing.T) {
	tab := NewTable("CPI")
	if !tab.First().IsZero() || !tab.Last().IsZero() {
		t.Errorf("empty table First/Last = %v/%v want zero dates", tab.First(), tab.Last())
	}
	d1, d2 := date.New(1991, time.January, 31), date.New(1991, time.February, 28)
	tab.Append(d1, 1.062).Append(d2, 1.049)
	if tab.First() != d1 || tab.Last() != d2 {
		t.Errorf("First/Last = %v/%v want %v/%v", tab.First(), tab.Last(), d1, d2)
	}
}

func TestTableSince(t *testing.T) {
	tab := NewTable("CLOSE_PRICE")
	days := []date.Date{
		date.New(2020, time.January, 1),
		date.New(2020, time.February, 1),
		date.New(2020, time.March, 1),
	}
	for i, day := range days {
		tab.Append(day, float64(i+1))
	}

	sub := tab.Since(days[1])
	if sub.Len() != 2 {
		t.Fatalf("Since().Len() = %d want 2", sub.Len())
	}
	if sub.Day(0) != days[1] || sub.Row(1)[0] != 3.0 {
		t.Errorf("Since() starts at %v (%v) want %v", sub.Day(0), sub.Row(1), days[1])
	}

	// A cut date between rows starts at the next row.
	sub = tab.Since(date.New(2020, time.January, 15))
	if sub.Len() != 2 || sub.Day(0) != days[1] {
		t.Errorf("Since(mid) = %d rows from %v, want 2 from %v", sub.Len(), sub.Day(0), days[1])
	}

	if got := tab.Since(date.New(2021, time.January, 1)).Len(); got != 0 {
		t.Errorf("Since(beyond last) has %d rows, want 0", got)
	}
}

func TestTableTail(t *testing.T) {
	tab := NewTable("CPI")
	for i := 1; i <= 5; i++ {
		tab.Append(date.New(2020, time.Month(i), 1), float64(i))
	}
	tail := tab.Tail(2)
	if tail.Len() != 2 || tail.Row(0)[0] != 4.0 {
		t.Errorf("Tail(2) = %d rows starting %v, want 2 starting 4", tail.Len(), tail.Row(0))
	}
	if tab.Tail(10).Len() != 5 {
		t.Errorf("Tail(10).Len() = %d want 5", tab.Tail(10).Len())
	}
}
