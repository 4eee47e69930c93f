package calendar

import (
	"fmt"
	"time"
)

// Weekdays are the fixed column headers the grid aligns under.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Month identifies a month view. Month is 0-based (0 = January).
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewMonth normalizes out of range months: (2024, -1) is December 2023, (2024, 12) is January 2025.
func NewMonth(year, month int) Month {
	t := firstOfMonth(year, month)
	return Month{Year: t.Year(), Month: int(t.Month()) - 1}
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: int(t.Month()) - 1}
}

func (m Month) Next() Month { return NewMonth(m.Year, m.Month+1) }
func (m Month) Prev() Month { return NewMonth(m.Year, m.Month-1) }

func (m Month) String() string {
	return fmt.Sprintf("%s %d", time.Month(m.Month+1), m.Year)
}

func firstOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days of the (0-based) month.
// Day 0 of the next month is the last day of this one.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of the month: 0 = Sunday .. 6 = Saturday.
func FirstWeekday(year, month int) int {
	return int(firstOfMonth(year, month).Weekday())
}

// FormatDate returns the "YYYY-MM-DD" string of a day of a (0-based) month.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
}

// Cell is one grid position: a blank placeholder or a day.
type Cell struct {
	Blank   bool    `json:"blank,omitempty"`
	Day     int     `json:"day,omitempty"`
	Date    string  `json:"date,omitempty"`
	IsToday bool    `json:"is_today,omitempty"`
	Events  []Event `json:"events,omitempty"`
}

// Preview returns at most max events of the cell plus how many were left out ("+N more").
// max <= 0 means no limit.
func (c Cell) Preview(max int) (shown []Event, more int) {
	if max <= 0 || len(c.Events) <= max {
		return c.Events, 0
	}
	return c.Events[:max], len(c.Events) - max
}

type Grid struct {
	Month
	Cells []Cell `json:"cells"`
}

// Blanks returns the number of leading placeholder cells.
func (g Grid) Blanks() int {
	var n int
	for _, c := range g.Cells {
		if !c.Blank {
			break
		}
		n++
	}
	return n
}

// Days returns the day cells only.
func (g Grid) Days() []Cell {
	return g.Cells[g.Blanks():]
}

// BuildGrid lays out a month view: FirstWeekday blanks followed by one cell per day.
// Each day holds every event whose Date equals the day's date string, in the input order.
// today is the caller's current local date; it is compared by calendar date only.
// events is only read.
func BuildGrid(year, month int, events []Event, today time.Time) Grid {
	m := NewMonth(year, month)
	blanks := FirstWeekday(m.Year, m.Month)
	days := DaysInMonth(m.Year, m.Month)

	byDate := make(map[string][]Event)
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	ty, tm, td := today.Date()

	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for day := 1; day <= days; day++ {
		date := FormatDate(m.Year, m.Month, day)
		cells = append(cells, Cell{
			Day:     day,
			Date:    date,
			IsToday: ty == m.Year && int(tm)-1 == m.Month && td == day,
			Events:  byDate[date],
		})
	}
	return Grid{Month: m, Cells: cells}
}
