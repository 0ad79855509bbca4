package mdash

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kyri56xcaesar/pms-dash/internal/board"
)

var testNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *board.Store) {
	t.Helper()
	store, err := board.NewMockStore(testNow, board.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	cfg := Config{
		ApiGinMode:     "test",
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"*"},
	}
	return NewServer(cfg, store, zap.NewNop(), WithNow(func() time.Time { return testNow })), store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

type dashboardOut struct {
	Stats struct {
		TotalProjects     int               `json:"totalProjects"`
		TotalTasks        int               `json:"totalTasks"`
		CompletionRate    int               `json:"tasksCompletionRate"`
		UpcomingDeadlines []json.RawMessage `json:"upcomingDeadlines"`
	} `json:"stats"`
	Priority map[string]int    `json:"priorityBreakdown"`
	Projects []json.RawMessage `json:"projects"`
	Timeline []TimelineEntry   `json:"timeline"`
}

func TestDashboard(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	out := decode[dashboardOut](t, w)

	assert.Equal(t, 4, out.Stats.TotalProjects)
	assert.Equal(t, 28, out.Stats.TotalTasks)
	assert.Equal(t, 29, out.Stats.CompletionRate)
	assert.Len(t, out.Stats.UpcomingDeadlines, 8)
	assert.Equal(t, map[string]int{"high": 16, "medium": 8, "low": 4}, out.Priority)
	assert.Len(t, out.Projects, 4)
	require.Len(t, out.Timeline, 4)
	assert.InDelta(t, 62.5, out.Timeline[0].Width, 1e-9)
}

func TestListProjects(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/projects?q=app", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Items  []board.ProjectSummary `json:"items"`
		Active []board.ProjectSummary `json:"active"`
	}](t, w)

	require.Len(t, out.Items, 1)
	assert.Equal(t, "project-2", out.Items[0].ID)
	assert.Equal(t, 40, out.Items[0].Progress)
	assert.Equal(t, 29, out.Items[0].CompletionRate)
	assert.Len(t, out.Active, 1)
}

func TestProject(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/projects/project-3", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[ProjectDetail](t, w)
	assert.Equal(t, "Marketing Campaign Q2", out.Project.Name)
	assert.Len(t, out.Members, 2)
	assert.Equal(t, 4, out.Priority[board.PriorityHigh])
	assert.Equal(t, 3, out.Status[board.StatusTodo])

	w = do(t, s, http.MethodGet, "/api/v1/projects/project-9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBoard(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/projects/project-1/board", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Columns map[string][]board.Task `json:"columns"`
	}](t, w)
	assert.Len(t, out.Columns, 4)
	assert.Len(t, out.Columns["todo"], 3)
	assert.Empty(t, out.Columns["review"])

	w = do(t, s, http.MethodGet, "/api/v1/projects/nope/board", "")
	require.Equal(t, http.StatusOK, w.Code)
	out = decode[struct {
		Columns map[string][]board.Task `json:"columns"`
	}](t, w)
	assert.Empty(t, out.Columns)
}

func TestListTasks(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/tasks?q=design&priority=medium&status=in-progress,todo&sort=project", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Items []board.TaskView `json:"items"`
		Count int              `json:"count"`
	}](t, w)
	require.Equal(t, 4, out.Count)
	for _, task := range out.Items {
		assert.Equal(t, "Design product detail page", task.Title)
	}
	assert.Equal(t, "E-commerce Platform Redesign", out.Items[0].ProjectName)
	assert.Equal(t, "Product Feature Expansion", out.Items[3].ProjectName)

	w = do(t, s, http.MethodGet, "/api/v1/tasks", "")
	out = decode[struct {
		Items []board.TaskView `json:"items"`
		Count int              `json:"count"`
	}](t, w)
	assert.Equal(t, 28, out.Count)

	for _, bad := range []string{"?sort=nope", "?status=blocked", "?priority=urgent"} {
		w = do(t, s, http.MethodGet, "/api/v1/tasks"+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestTask(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/tasks/task-project-1-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Task     board.Task       `json:"task"`
		Assignee board.TeamMember `json:"assignee"`
	}](t, w)
	assert.Equal(t, board.StatusDone, out.Task.Status)
	assert.Equal(t, "Emily Davis", out.Assignee.Name)

	w = do(t, s, http.MethodGet, "/api/v1/tasks/none", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalendar(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/calendar", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Month string         `json:"month"`
		Days  map[string]int `json:"days"`
	}](t, w)
	assert.Equal(t, "2024-06", out.Month)
	assert.Equal(t, map[string]int{
		"2024-06-05": 4, "2024-06-07": 4, "2024-06-12": 4, "2024-06-14": 4,
		"2024-06-17": 4, "2024-06-20": 4, "2024-06-24": 4,
	}, out.Days)

	w = do(t, s, http.MethodGet, "/api/v1/calendar?month=2024-05", "")
	require.Equal(t, http.StatusOK, w.Code)
	out = decode[struct {
		Month string         `json:"month"`
		Days  map[string]int `json:"days"`
	}](t, w)
	assert.Empty(t, out.Days)

	w = do(t, s, http.MethodGet, "/api/v1/calendar?day=2024-06-12", "")
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[struct {
		Items []board.TaskView `json:"items"`
	}](t, w)
	assert.Len(t, day.Items, 4)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/calendar?day=12/06", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/calendar?month=June", "").Code)
}

func TestTaskLifecycle(t *testing.T) {
	s, store := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/tasks",
		`{"projectId":"project-3","title":"Book venue","priority":"high","assigneeId":"user-4","dueDate":"2024-06-20T09:00:00Z","tags":["events"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Task board.Task `json:"task"`
	}](t, w).Task
	assert.Equal(t, board.StatusTodo, created.Status)
	assert.Equal(t, board.PriorityHigh, created.Priority)

	w = do(t, s, http.MethodPatch, "/api/v1/tasks/"+created.ID+"/status?status=review", "")
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := store.Task(created.ID)
	assert.Equal(t, board.StatusReview, got.Status)

	w = do(t, s, http.MethodPut, "/api/v1/tasks/"+created.ID, `{"title":"Book the venue","clearDueDate":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got, _ = store.Task(created.ID)
	assert.Equal(t, "Book the venue", got.Title)
	assert.Nil(t, got.DueDate)

	w = do(t, s, http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	_, ok := store.Task(created.ID)
	assert.False(t, ok)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, "/api/v1/tasks/"+created.ID, "").Code)
}

func TestTaskWrites_Errors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"create unknown project", http.MethodPost, "/api/v1/tasks", `{"projectId":"p-0","title":"hello"}`, http.StatusNotFound},
		{"create missing title", http.MethodPost, "/api/v1/tasks", `{"projectId":"project-1"}`, http.StatusBadRequest},
		{"create bad status", http.MethodPost, "/api/v1/tasks", `{"projectId":"project-1","title":"hello","status":"blocked"}`, http.StatusBadRequest},
		{"create unknown assignee", http.MethodPost, "/api/v1/tasks", `{"projectId":"project-1","title":"hello","assigneeId":"x"}`, http.StatusBadRequest},
		{"update no fields", http.MethodPut, "/api/v1/tasks/task-project-1-1", `{}`, http.StatusBadRequest},
		{"update unknown task", http.MethodPut, "/api/v1/tasks/none", `{"title":"hello"}`, http.StatusNotFound},
		{"patch bad status", http.MethodPatch, "/api/v1/tasks/task-project-1-1/status?status=later", "", http.StatusBadRequest},
		{"patch unknown task", http.MethodPatch, "/api/v1/tasks/none/status?status=done", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestNoRoute(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/v2/anything", "").Code)
}

func TestRosterAndTimeline(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/roster", "")
	require.Equal(t, http.StatusOK, w.Code)
	roster := decode[struct {
		Items []board.TeamMember `json:"items"`
	}](t, w)
	assert.Len(t, roster.Items, 4)

	w = do(t, s, http.MethodGet, "/api/v1/timeline", "")
	require.Equal(t, http.StatusOK, w.Code)
	timeline := decode[struct {
		Items []TimelineEntry `json:"items"`
	}](t, w)
	require.Len(t, timeline.Items, 4)
	assert.Equal(t, "project-1", timeline.Items[0].ID)
	for _, it := range timeline.Items {
		assert.GreaterOrEqual(t, it.Left, 0.0)
		assert.LessOrEqual(t, it.Left+it.Width, 100.0+1e-9)
	}
}
