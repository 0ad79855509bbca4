package board

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"kyri56xcaesar/pms-dash/internal/utils"
)

type SortKey string

const (
	SortByDueDate  SortKey = "dueDate"
	SortByPriority SortKey = "priority"
	SortByStatus   SortKey = "status"
	SortByProject  SortKey = "project"
)

func ParseSortKey(v string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(v)); k {
	case SortByDueDate, SortByPriority, SortByStatus, SortByProject:
		return k, nil
	case "":
		return SortByDueDate, nil
	}
	return "", fmt.Errorf("unknown sort key %q", v)
}

type TaskQuery struct {
	Query      string
	Statuses   []Status
	Priorities []Priority
	SortBy     SortKey
}

// FilterAndSortTasks applies the text and category filters and returns a
// stably sorted copy. Filters of one kind are OR'd; kinds are AND'd.
func FilterAndSortTasks(tasks []TaskView, q TaskQuery) []TaskView {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Query))

	out := utils.Filter(tasks, func(t TaskView) bool {
		if needle != "" &&
			!strings.Contains(fold.String(t.Title), needle) &&
			!strings.Contains(fold.String(t.Description), needle) {
			return false
		}
		if len(q.Priorities) > 0 && !utils.Contains(q.Priorities, t.Priority) {
			return false
		}
		if len(q.Statuses) > 0 && !utils.Contains(q.Statuses, t.Status) {
			return false
		}
		return true
	})

	slices.SortStableFunc(out, taskComparator(q.SortBy))
	return out
}

func taskComparator(key SortKey) func(a, b TaskView) int {
	switch key {
	case SortByPriority:
		return func(a, b TaskView) int {
			return b.Priority.severity() - a.Priority.severity()
		}
	case SortByStatus:
		return func(a, b TaskView) int {
			return b.Status.rank() - a.Status.rank()
		}
	case SortByProject:
		col := collate.New(language.English)
		return func(a, b TaskView) int {
			return col.CompareString(a.ProjectName, b.ProjectName)
		}
	case SortByDueDate:
		return compareDue
	}
	return func(a, b TaskView) int { return 0 }
}

// compareDue orders by due date ascending with undated tasks last.
func compareDue(a, b TaskView) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}
