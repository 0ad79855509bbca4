package mdash

import (
	"time"

	"kyri56xcaesar/pms-dash/internal/board"
)

type CreateTaskRequest struct {
	ProjectID   string     `json:"projectId" form:"projectId" binding:"required"`
	Title       string     `json:"title" form:"title" binding:"required,min=2,max=120"`
	Description string     `json:"description" form:"description" binding:"max=2000"`
	Assignee    string     `json:"assigneeId" form:"assigneeId" binding:"max=128"`
	Status      string     `json:"status" form:"status" binding:"omitempty,oneof=todo in-progress review done"`
	Deadline    *time.Time `json:"dueDate" form:"dueDate"`
	Priority    string     `json:"priority" form:"priority" binding:"omitempty,oneof=high medium low"`
	Tags        []string   `json:"tags" form:"tags"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" form:"title" binding:"omitempty,min=2,max=120"`
	Description *string    `json:"description" form:"description" binding:"omitempty,max=2000"`
	Assignee    *string    `json:"assigneeId" form:"assigneeId" binding:"omitempty,max=128"`
	Status      *string    `json:"status" form:"status" binding:"omitempty,oneof=todo in-progress review done"`
	Deadline    *time.Time `json:"dueDate" form:"dueDate"`
	ClearDue    bool       `json:"clearDueDate" form:"clearDueDate"`
	Priority    *string    `json:"priority" form:"priority" binding:"omitempty,oneof=high medium low"`
}

func (r CreateTaskRequest) toNewTask() (board.NewTask, error) {
	nt := board.NewTask{
		Title:       r.Title,
		Description: r.Description,
		Status:      board.StatusTodo,
		Priority:    board.PriorityMedium,
		DueDate:     r.Deadline,
		Tags:        r.Tags,
		AssigneeID:  r.Assignee,
	}

	var err error
	if r.Status != "" {
		if nt.Status, err = board.ParseStatus(r.Status); err != nil {
			return nt, err
		}
	}
	if r.Priority != "" {
		if nt.Priority, err = board.ParsePriority(r.Priority); err != nil {
			return nt, err
		}
	}
	return nt, nil
}

func (r UpdateTaskRequest) toUpdate() (board.TaskUpdate, error) {
	u := board.TaskUpdate{
		Title:       r.Title,
		Description: r.Description,
		AssigneeID:  r.Assignee,
		DueDate:     r.Deadline,
		ClearDue:    r.ClearDue,
	}
	if r.Status != nil {
		st, err := board.ParseStatus(*r.Status)
		if err != nil {
			return u, err
		}
		u.Status = &st
	}
	if r.Priority != nil {
		p, err := board.ParsePriority(*r.Priority)
		if err != nil {
			return u, err
		}
		u.Priority = &p
	}
	return u, nil
}

type ProjectDetail struct {
	Project  board.Project          `json:"project"`
	Summary  board.ProjectSummary   `json:"summary"`
	Members  []board.TeamMember     `json:"members"`
	Priority map[board.Priority]int `json:"priorityBreakdown"`
	Status   map[board.Status]int   `json:"statusBreakdown"`
}

type DashboardResponse struct {
	Stats    board.DashboardStats   `json:"stats"`
	Priority map[board.Priority]int `json:"priorityBreakdown"`
	Status   map[board.Status]int   `json:"statusBreakdown"`
	Projects []board.ProjectSummary `json:"projects"`
	Timeline []TimelineEntry        `json:"timeline"`
}

// TimelineEntry pairs a timeline item with its placement.
type TimelineEntry struct {
	board.TimelineItem
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}
