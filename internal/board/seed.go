package board

import (
	"fmt"
	"time"
)

// MockRoster is the demo team.
func MockRoster() []TeamMember {
	return []TeamMember{
		{ID: "user-1", Name: "Alex Johnson", Role: "Project Manager", Avatar: "https://i.pravatar.cc/150?img=1", Email: "alex@example.com"},
		{ID: "user-2", Name: "Sarah Chen", Role: "UX Designer", Avatar: "https://i.pravatar.cc/150?img=5", Email: "sarah@example.com"},
		{ID: "user-3", Name: "Michael Brown", Role: "Developer", Avatar: "https://i.pravatar.cc/150?img=8", Email: "michael@example.com"},
		{ID: "user-4", Name: "Emily Davis", Role: "Marketing", Avatar: "https://i.pravatar.cc/150?img=9", Email: "emily@example.com"},
	}
}

type taskSeed struct {
	title, description string
	status             Status
	priority           Priority
	dueIn, createdIn   int // days relative to now
	tags               []string
	assignee           string
}

var taskSeeds = []taskSeed{
	{"Research competitor products", "Analyze the top 5 competitor products and create a comparison report",
		StatusDone, PriorityHigh, -5, -10, []string{"research", "marketing"}, "user-4"},
	{"Create wireframes for homepage", "Design initial wireframes for the homepage based on the requirements",
		StatusDone, PriorityHigh, -3, -8, []string{"design", "ui"}, "user-2"},
	{"Implement user authentication", "Set up user authentication system including login, signup and password reset",
		StatusInProgress, PriorityHigh, 2, -6, []string{"development", "backend"}, "user-3"},
	{"Design product detail page", "Create high-fidelity design for the product detail page",
		StatusInProgress, PriorityMedium, 4, -5, []string{"design", "ui"}, "user-2"},
	{"Implement API endpoints", "Create backend API endpoints for product and user data",
		StatusTodo, PriorityMedium, 7, -4, []string{"development", "api"}, "user-3"},
	{"Set up content management system", "Configure CMS for managing product content and marketing materials",
		StatusTodo, PriorityLow, 10, -3, []string{"setup", "content"}, "user-1"},
	{"Prepare product launch plan", "Create a comprehensive marketing plan for the product launch",
		StatusTodo, PriorityHigh, 14, -2, []string{"marketing", "planning"}, "user-4"},
}

// MockTasks generates the demo tasks of a project, dated relative to now.
func MockTasks(projectID string, now time.Time) []Task {
	out := make([]Task, 0, len(taskSeeds))
	for i, ts := range taskSeeds {
		due := now.AddDate(0, 0, ts.dueIn)
		out = append(out, Task{
			ID:          fmt.Sprintf("task-%s-%d", projectID, i+1),
			ProjectID:   projectID,
			Title:       ts.title,
			Description: ts.description,
			Status:      ts.status,
			Priority:    ts.priority,
			DueDate:     &due,
			CreatedDate: now.AddDate(0, 0, ts.createdIn),
			Tags:        append([]string(nil), ts.tags...),
			AssigneeID:  ts.assignee,
		})
	}
	return out
}

// MockProjects generates the demo projects with their tasks.
func MockProjects(now time.Time) []Project {
	projects := []Project{
		{
			ID: "project-1", Name: "E-commerce Platform Redesign",
			Description: "Redesigning the UI/UX of the main e-commerce platform",
			Progress:    65, StartDate: now.AddDate(0, 0, -30), EndDate: now.AddDate(0, 0, 45),
			MemberIDs: []string{"user-1", "user-2", "user-3"},
		},
		{
			ID: "project-2", Name: "Mobile App Development",
			Description: "Creating a new mobile application for customers",
			Progress:    40, StartDate: now.AddDate(0, 0, -15), EndDate: now.AddDate(0, 0, 60),
			MemberIDs: []string{"user-1", "user-3", "user-4"},
		},
		{
			ID: "project-3", Name: "Marketing Campaign Q2",
			Description: "Planning and executing the Q2 marketing campaign",
			Progress:    20, StartDate: now.AddDate(0, 0, -5), EndDate: now.AddDate(0, 0, 80),
			MemberIDs: []string{"user-1", "user-4"},
		},
		{
			ID: "project-4", Name: "Product Feature Expansion",
			Description: "Adding new features to the core product",
			Progress:    10, StartDate: now.AddDate(0, 0, 5), EndDate: now.AddDate(0, 0, 90),
			MemberIDs: []string{"user-1", "user-2", "user-3", "user-4"},
		},
	}
	for i := range projects {
		projects[i].Tasks = MockTasks(projects[i].ID, now)
	}
	return projects
}

// NewMockStore builds a store seeded with the demo dataset anchored at now.
func NewMockStore(now time.Time, opts ...Option) (*Store, error) {
	return NewStore(MockRoster(), MockProjects(now), opts...)
}
