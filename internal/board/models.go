package board

import (
	"fmt"
	"strings"
	"time"
)

type Status int

const (
	StatusTodo Status = iota
	StatusInProgress
	StatusReview
	StatusDone
)

// Statuses lists every status in board column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}

func (s Status) String() string {
	switch s {
	case StatusTodo:
		return "todo"
	case StatusInProgress:
		return "in-progress"
	case StatusReview:
		return "review"
	case StatusDone:
		return "done"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// rank orders statuses least-done first.
func (s Status) rank() int {
	switch s {
	case StatusTodo:
		return 4
	case StatusInProgress:
		return 3
	case StatusReview:
		return 2
	case StatusDone:
		return 1
	}
	return 0
}

func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "todo":
		return StatusTodo, nil
	case "in-progress":
		return StatusInProgress, nil
	case "review":
		return StatusReview, nil
	case "done":
		return StatusDone, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, v)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// severity ranks high=3 > medium=2 > low=1.
func (p Priority) severity() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func ParsePriority(v string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, v)
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

type TeamMember struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Role   string `json:"role" yaml:"role"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Email  string `json:"email" yaml:"email"`
}

type Task struct {
	ID          string     `json:"id" yaml:"id"`
	ProjectID   string     `json:"projectId" yaml:"projectId"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status     `json:"status" yaml:"status"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	CreatedDate time.Time  `json:"createdDate" yaml:"createdDate"`
	Tags        []string   `json:"tags" yaml:"tags"`
	AssigneeID  string     `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
}

func (t Task) clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	c.Tags = append([]string(nil), t.Tags...)
	return c
}

type Project struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Progress    int       `json:"progress" yaml:"progress"`
	Tasks       []Task    `json:"tasks" yaml:"tasks"`
	StartDate   time.Time `json:"startDate" yaml:"startDate"`
	EndDate     time.Time `json:"endDate" yaml:"endDate"`
	MemberIDs   []string  `json:"memberIds" yaml:"memberIds"`
}

func (p Project) clone() Project {
	c := p
	c.Tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		c.Tasks[i] = t.clone()
	}
	c.MemberIDs = append([]string(nil), p.MemberIDs...)
	return c
}

// TaskView is a task joined with the display name of its project.
type TaskView struct {
	Task
	ProjectName string `json:"projectName" yaml:"projectName"`
}

type DashboardStats struct {
	TotalProjects     int    `json:"totalProjects" yaml:"totalProjects"`
	ActiveProjects    int    `json:"activeProjects" yaml:"activeProjects"`
	TotalTasks        int    `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks    int    `json:"completedTasks" yaml:"completedTasks"`
	CompletionRate    int    `json:"tasksCompletionRate" yaml:"tasksCompletionRate"`
	UpcomingDeadlines []Task `json:"upcomingDeadlines" yaml:"upcomingDeadlines"`
	OverdueDeadlines  []Task `json:"overdueDeadlines" yaml:"overdueDeadlines"`
}

// ProjectSummary reports the stored progress next to the task completion
// ratio. The two are independent and may disagree.
type ProjectSummary struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description" yaml:"description"`
	Progress       int    `json:"progress" yaml:"progress"`
	TotalTasks     int    `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks int    `json:"completedTasks" yaml:"completedTasks"`
	CompletionRate int    `json:"completionRate" yaml:"completionRate"`
	MemberCount    int    `json:"memberCount" yaml:"memberCount"`
}

// TaskUpdate carries the optional fields of an edit. Nil means unchanged;
// an empty AssigneeID clears the assignee.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	AssigneeID  *string
	DueDate     *time.Time
	ClearDue    bool
}

type NewTask struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	Tags        []string
	AssigneeID  string
}
