package board

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kyri56xcaesar/pms-dash/internal/utils"
)

// Store owns the roster and the projects with their tasks. Reads return
// copies; writes are last-write-wins per field.
type Store struct {
	mu       sync.RWMutex
	roster   []TeamMember
	projects []Project
	now      func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used to stamp created tasks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore validates that every task belongs to its enclosing project and
// every assignee and project member exists in the roster.
func NewStore(roster []TeamMember, projects []Project, opts ...Option) (*Store, error) {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	ids := make(map[string]struct{}, len(roster))
	for _, m := range roster {
		if _, dup := ids[m.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMember, m.ID)
		}
		ids[m.ID] = struct{}{}
		s.roster = append(s.roster, m)
	}

	seen := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate project id %s", p.ID)
		}
		seen[p.ID] = struct{}{}

		for _, mid := range p.MemberIDs {
			if _, ok := ids[mid]; !ok {
				return nil, fmt.Errorf("project %s: %w: %s", p.ID, ErrMemberNotFound, mid)
			}
		}
		for _, t := range p.Tasks {
			if t.ProjectID != p.ID {
				return nil, fmt.Errorf("task %s: %w: %s", t.ID, ErrProjectNotFound, t.ProjectID)
			}
			if t.AssigneeID == "" {
				continue
			}
			if _, ok := ids[t.AssigneeID]; !ok {
				return nil, fmt.Errorf("task %s: %w: %s", t.ID, ErrMemberNotFound, t.AssigneeID)
			}
		}
		s.projects = append(s.projects, p.clone())
	}

	return s, nil
}

func (s *Store) Roster() []TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.roster)
}

func (s *Store) Member(id string) (TeamMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.memberLocked(id)
}

func (s *Store) memberLocked(id string) (TeamMember, bool) {
	for _, m := range s.roster {
		if m.ID == id {
			return m, true
		}
	}
	return TeamMember{}, false
}

// AddMember appends m to the roster.
func (s *Store) AddMember(m TeamMember) error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("member id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memberLocked(m.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMember, m.ID)
	}
	s.roster = append(s.roster, m)
	return nil
}

// Assignee resolves the assignee reference of t against the roster.
func (s *Store) Assignee(t Task) (TeamMember, bool) {
	if t.AssigneeID == "" {
		return TeamMember{}, false
	}
	return s.Member(t.AssigneeID)
}

// ProjectMembers resolves the member references of a project, in project order.
func (s *Store) ProjectMembers(projectID string) []TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.projectLocked(projectID)
	if p == nil {
		return nil
	}
	out := make([]TeamMember, 0, len(p.MemberIDs))
	for _, id := range p.MemberIDs {
		if m, ok := s.memberLocked(id); ok {
			out = append(out, m)
		}
	}
	return out
}

// Projects returns a snapshot of every project in store order.
func (s *Store) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return utils.Map(s.projects, Project.clone)
}

func (s *Store) Project(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.projectLocked(id)
	if p == nil {
		return Project{}, false
	}
	return p.clone(), true
}

func (s *Store) projectLocked(id string) *Project {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return &s.projects[i]
		}
	}
	return nil
}

func (s *Store) taskLocked(id string) (*Project, int) {
	for i := range s.projects {
		for j := range s.projects[i].Tasks {
			if s.projects[i].Tasks[j].ID == id {
				return &s.projects[i], j
			}
		}
	}
	return nil, -1
}

func (s *Store) Task(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, i := s.taskLocked(id)
	if p == nil {
		return Task{}, false
	}
	return p.Tasks[i].clone(), true
}

// AllTasks flattens every project's tasks, project order first.
func (s *Store) AllTasks() []TaskView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []TaskView{}
	for _, p := range s.projects {
		for _, t := range p.Tasks {
			out = append(out, TaskView{Task: t.clone(), ProjectName: p.Name})
		}
	}
	return out
}

// SetTaskStatus moves a task to any status; there is no transition graph.
func (s *Store) SetTaskStatus(taskID string, status Status) error {
	return s.UpdateTask(taskID, TaskUpdate{Status: &status})
}

func (s *Store) UpdateTask(taskID string, u TaskUpdate) error {
	if u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil &&
		u.AssigneeID == nil && u.DueDate == nil && !u.ClearDue {
		return ErrNoFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, i := s.taskLocked(taskID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if u.AssigneeID != nil && *u.AssigneeID != "" {
		if _, ok := s.memberLocked(*u.AssigneeID); !ok {
			return fmt.Errorf("%w: %s", ErrMemberNotFound, *u.AssigneeID)
		}
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ErrEmptyTitle
	}

	t := &p.Tasks[i]
	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.AssigneeID != nil {
		t.AssigneeID = *u.AssigneeID
	}
	switch {
	case u.ClearDue:
		t.DueDate = nil
	case u.DueDate != nil:
		d := *u.DueDate
		t.DueDate = &d
	}
	return nil
}

// CreateTask appends a new task at the end of the project's list. Ids have
// the form task-<projectID>-<uuid>.
func (s *Store) CreateTask(projectID string, nt NewTask) (Task, error) {
	title := strings.TrimSpace(nt.Title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.projectLocked(projectID)
	if p == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if nt.AssigneeID != "" {
		if _, ok := s.memberLocked(nt.AssigneeID); !ok {
			return Task{}, fmt.Errorf("%w: %s", ErrMemberNotFound, nt.AssigneeID)
		}
	}

	t := Task{
		ID:          fmt.Sprintf("task-%s-%s", projectID, uuid.NewString()),
		ProjectID:   projectID,
		Title:       title,
		Description: nt.Description,
		Status:      nt.Status,
		Priority:    nt.Priority,
		CreatedDate: s.now(),
		Tags:        utils.Uniq(nt.Tags),
		AssigneeID:  nt.AssigneeID,
	}
	if nt.DueDate != nil {
		d := *nt.DueDate
		t.DueDate = &d
	}
	p.Tasks = append(p.Tasks, t)

	return t.clone(), nil
}

// DeleteTask removes a task; the remaining tasks keep their order.
func (s *Store) DeleteTask(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, i := s.taskLocked(taskID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	p.Tasks = slices.Delete(p.Tasks, i, i+1)
	return nil
}
