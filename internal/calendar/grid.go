// Package calendar builds month-view grids as pure data, independent of any
// rendering concern.
package calendar

import "time"

// Cell is one slot in a month grid. Leading blanks that pad the first week
// have Day == 0 and a zero Date.
type Cell struct {
	Day  int
	Date time.Time
}

// Blank reports whether the cell is a leading pad slot.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// MonthGrid returns the ordered cells of a Monday-first month view: the
// blanks padding the first week, then one cell per day of the month. Dates
// are midnight UTC.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) + 6) % 7
	last := first.AddDate(0, 1, -1).Day()

	cells := make([]Cell, 0, lead+last)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= last; day++ {
		cells = append(cells, Cell{
			Day:  day,
			Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		})
	}
	return cells
}

// DaysWithEvents reports which days of the month at least one of the given
// event start times falls on, keyed by day number.
func DaysWithEvents(year int, month time.Month, starts []time.Time) map[int]bool {
	days := make(map[int]bool)
	for _, s := range starts {
		s = s.UTC()
		if s.Year() == year && s.Month() == month {
			days[s.Day()] = true
		}
	}
	return days
}
