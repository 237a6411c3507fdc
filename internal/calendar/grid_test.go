package calendar

import (
	"testing"
	"time"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		wantLead  int
		wantDays  int
		wantCells int
	}{
		// September 2025 starts on a Monday: no padding.
		{"monday start", 2025, time.September, 0, 30, 30},
		// June 2025 starts on a Sunday: maximum padding.
		{"sunday start", 2025, time.June, 6, 30, 36},
		// February 2024 is a leap month starting on a Thursday.
		{"leap february", 2024, time.February, 3, 29, 32},
		{"non-leap february", 2025, time.February, 5, 28, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthGrid(tt.year, tt.month)
			if len(cells) != tt.wantCells {
				t.Fatalf("expected %d cells, got %d", tt.wantCells, len(cells))
			}
			for i := 0; i < tt.wantLead; i++ {
				if !cells[i].Blank() {
					t.Errorf("cell %d should be blank", i)
				}
			}
			for i := tt.wantLead; i < len(cells); i++ {
				want := i - tt.wantLead + 1
				if cells[i].Day != want {
					t.Errorf("cell %d: expected day %d, got %d", i, want, cells[i].Day)
				}
			}
			lastCell := cells[len(cells)-1]
			if lastCell.Day != tt.wantDays {
				t.Errorf("expected last day %d, got %d", tt.wantDays, lastCell.Day)
			}
			if lastCell.Date != time.Date(tt.year, tt.month, tt.wantDays, 0, 0, 0, 0, time.UTC) {
				t.Errorf("unexpected last date %v", lastCell.Date)
			}
		})
	}
}

func TestDaysWithEvents(t *testing.T) {
	starts := []time.Time{
		time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 15, 14, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 20, 8, 30, 0, 0, time.UTC),
		time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
	}

	days := DaysWithEvents(2025, time.January, starts)

	if len(days) != 2 {
		t.Fatalf("expected 2 days with events, got %d", len(days))
	}
	if !days[15] || !days[20] {
		t.Errorf("expected days 15 and 20, got %v", days)
	}
}
