package board

import (
	"time"

	"kyri56xcaesar/pms-dash/internal/utils"
)

const DayLayout = "2006-01-02"

// MonthBounds returns midnight of the first and of the last day of t's month,
// in t's location.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}

// SameDay compares calendar dates in the location of day.
func SameDay(t, day time.Time) bool {
	t = t.In(day.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// BucketTasksByDay counts tasks due on each day of the inclusive range
// [monthStart, monthEnd]. Days without tasks are left out.
func BucketTasksByDay(tasks []Task, monthStart, monthEnd time.Time) map[string]int {
	out := map[string]int{}
	loc := monthStart.Location()
	day := time.Date(monthStart.Year(), monthStart.Month(), monthStart.Day(), 0, 0, 0, 0, loc)
	last := monthEnd.In(loc)
	last = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc)

	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		n := utils.Count(tasks, func(t Task) bool {
			return t.DueDate != nil && SameDay(*t.DueDate, day)
		})
		if n > 0 {
			out[day.Format(DayLayout)] = n
		}
	}
	return out
}

// TasksOnDay keeps the tasks due on day's calendar date.
func TasksOnDay(tasks []TaskView, day time.Time) []TaskView {
	return utils.Filter(tasks, func(t TaskView) bool {
		return t.DueDate != nil && SameDay(*t.DueDate, day)
	})
}
