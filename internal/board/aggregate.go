package board

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"kyri56xcaesar/pms-dash/internal/utils"
)

// DefaultUpcomingWindow bounds the upcoming deadlines list.
const DefaultUpcomingWindow = 7 * 24 * time.Hour

// GroupByStatus partitions a project's tasks into the four board columns,
// keeping insertion order. An unknown project yields an empty map.
func (s *Store) GroupByStatus(projectID string) map[Status][]Task {
	p, ok := s.Project(projectID)
	if !ok {
		return map[Status][]Task{}
	}

	out := make(map[Status][]Task, len(Statuses))
	for _, st := range Statuses {
		out[st] = []Task{}
	}
	for _, t := range p.Tasks {
		out[t.Status] = append(out[t.Status], t)
	}
	return out
}

// DashboardStats aggregates over every task using the default upcoming window.
func (s *Store) DashboardStats(now time.Time) DashboardStats {
	return ComputeDashboardStats(s.Projects(), now, DefaultUpcomingWindow)
}

// ComputeDashboardStats derives the dashboard numbers. Deadline lists keep
// task order within a project, then project order; they are not date sorted.
func ComputeDashboardStats(projects []Project, now time.Time, window time.Duration) DashboardStats {
	stats := DashboardStats{
		TotalProjects:     len(projects),
		ActiveProjects:    utils.Count(projects, func(p Project) bool { return p.Progress < 100 }),
		UpcomingDeadlines: []Task{},
		OverdueDeadlines:  []Task{},
	}
	horizon := now.Add(window)

	for _, p := range projects {
		for _, t := range p.Tasks {
			stats.TotalTasks++
			if t.Status == StatusDone {
				stats.CompletedTasks++
				continue
			}
			if t.DueDate == nil {
				continue
			}
			due := *t.DueDate
			if due.After(now) && due.Before(horizon) {
				stats.UpcomingDeadlines = append(stats.UpcomingDeadlines, t)
			}
			if due.Before(now) {
				stats.OverdueDeadlines = append(stats.OverdueDeadlines, t)
			}
		}
	}
	stats.CompletionRate = utils.Percent(stats.CompletedTasks, stats.TotalTasks)

	return stats
}

// PriorityBreakdown counts tasks per priority.
func PriorityBreakdown(tasks []Task) map[Priority]int {
	out := make(map[Priority]int, len(Priorities))
	for _, p := range Priorities {
		out[p] = 0
	}
	for _, t := range tasks {
		out[t.Priority]++
	}
	return out
}

// StatusBreakdown counts tasks per status.
func StatusBreakdown(tasks []Task) map[Status]int {
	out := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		out[st] = 0
	}
	for _, t := range tasks {
		out[t.Status]++
	}
	return out
}

func Summarize(p Project) ProjectSummary {
	done := utils.Count(p.Tasks, func(t Task) bool { return t.Status == StatusDone })
	return ProjectSummary{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Progress:       p.Progress,
		TotalTasks:     len(p.Tasks),
		CompletedTasks: done,
		CompletionRate: utils.Percent(done, len(p.Tasks)),
		MemberCount:    len(p.MemberIDs),
	}
}

// SearchProjects keeps projects whose name or description contains query,
// ignoring case. An empty query keeps everything.
func SearchProjects(projects []Project, query string) []Project {
	query = strings.TrimSpace(query)
	if query == "" {
		return projects
	}
	fold := cases.Fold()
	needle := fold.String(query)

	return utils.Filter(projects, func(p Project) bool {
		return strings.Contains(fold.String(p.Name), needle) ||
			strings.Contains(fold.String(p.Description), needle)
	})
}

// SplitByCompletion separates active projects (progress < 100) from
// completed ones (progress == 100), keeping order.
func SplitByCompletion(projects []Project) (active, completed []Project) {
	active, completed = []Project{}, []Project{}
	for _, p := range projects {
		switch {
		case p.Progress < 100:
			active = append(active, p)
		case p.Progress == 100:
			completed = append(completed, p)
		}
	}
	return active, completed
}

// Tasks of a list of projects, flattened in project order.
func Tasks(projects []Project) []Task {
	return utils.Reduce(projects, []Task{}, func(acc []Task, p Project) []Task {
		return append(acc, p.Tasks...)
	})
}
