package mdash

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auth "kyri56xcaesar/pms-dash/internal/authmw"
	"kyri56xcaesar/pms-dash/internal/board"
	"kyri56xcaesar/pms-dash/internal/utils"
)

const monthLayout = "2006-01"

func (s *Server) timeline(projects []board.Project) []TimelineEntry {
	items := board.TimelineItems(projects)
	slots := board.ComputeTimelineLayout(items)

	out := make([]TimelineEntry, len(items))
	for i, it := range items {
		out[i] = TimelineEntry{TimelineItem: it, Left: slots[i].Left, Width: slots[i].Width}
	}
	return out
}

func (s *Server) handleDashboard(c *gin.Context) {
	projects := s.store.Projects()
	tasks := board.Tasks(projects)

	c.JSON(http.StatusOK, DashboardResponse{
		Stats:    board.ComputeDashboardStats(projects, s.now(), s.config.UpcomingWindow),
		Priority: board.PriorityBreakdown(tasks),
		Status:   board.StatusBreakdown(tasks),
		Projects: utils.Map(projects, board.Summarize),
		Timeline: s.timeline(projects),
	})
}

func (s *Server) handleRoster(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.store.Roster()})
}

func (s *Server) handleListProjects(c *gin.Context) {
	query := c.Query("q")
	projects := board.SearchProjects(s.store.Projects(), query)
	active, completed := board.SplitByCompletion(projects)

	c.JSON(http.StatusOK, gin.H{
		"items":     utils.Map(projects, board.Summarize),
		"active":    utils.Map(active, board.Summarize),
		"completed": utils.Map(completed, board.Summarize),
		"q":         query,
	})
}

func (s *Server) handleProject(c *gin.Context) {
	p, ok := s.store.Project(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, ProjectDetail{
		Project:  p,
		Summary:  board.Summarize(p),
		Members:  s.store.ProjectMembers(p.ID),
		Priority: board.PriorityBreakdown(p.Tasks),
		Status:   board.StatusBreakdown(p.Tasks),
	})
}

// handleBoard answers with the kanban columns; an unknown project has none.
func (s *Server) handleBoard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"projectId": c.Param("id"),
		"columns":   s.store.GroupByStatus(c.Param("id")),
	})
}

func (s *Server) handleListTasks(c *gin.Context) {
	sortKey, err := board.ParseSortKey(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := board.TaskQuery{Query: c.Query("q"), SortBy: sortKey}

	for _, v := range queryList(c, "status") {
		st, err := board.ParseStatus(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		q.Statuses = append(q.Statuses, st)
	}
	for _, v := range queryList(c, "priority") {
		p, err := board.ParsePriority(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		q.Priorities = append(q.Priorities, p)
	}

	items := board.FilterAndSortTasks(s.store.AllTasks(), q)
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
		"sort":  sortKey,
	})
}

func (s *Server) handleTask(c *gin.Context) {
	t, ok := s.store.Task(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	payload := gin.H{"task": t}
	if m, ok := s.store.Assignee(t); ok {
		payload["assignee"] = m
	}
	c.JSON(http.StatusOK, payload)
}

// handleCalendar answers ?day=YYYY-MM-DD with that day's tasks, otherwise the
// per day counts of ?month=YYYY-MM (current month by default).
func (s *Server) handleCalendar(c *gin.Context) {
	loc := s.now().Location()

	if day := c.Query("day"); day != "" {
		d, err := time.ParseInLocation(board.DayLayout, day, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"day":   day,
			"items": board.TasksOnDay(s.store.AllTasks(), d),
		})
		return
	}

	month := s.now()
	if m := c.Query("month"); m != "" {
		var err error
		if month, err = time.ParseInLocation(monthLayout, m, loc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
	}
	start, end := board.MonthBounds(month)

	c.JSON(http.StatusOK, gin.H{
		"month": start.Format(monthLayout),
		"days":  board.BucketTasksByDay(board.Tasks(s.store.Projects()), start, end),
	})
}

func (s *Server) handleTimeline(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.timeline(s.store.Projects())})
}

func (s *Server) handleTaskCreate(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	nt, err := req.toNewTask()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := s.store.CreateTask(req.ProjectID, nt)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}

	s.log.Info("task created", zap.String("task", t.ID), zap.String("project", t.ProjectID), callerField(c))
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "task": t})
}

func (s *Server) handleTaskUpdate(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	u, err := req.toUpdate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.UpdateTask(c.Param("id"), u); err != nil {
		s.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTaskPatch(c *gin.Context) {
	status, err := board.ParseStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := s.store.SetTaskStatus(c.Param("id"), status); err != nil {
		s.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTaskDelete(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.DeleteTask(id); err != nil {
		s.respondStoreError(c, err)
		return
	}

	s.log.Info("task deleted", zap.String("task", id), callerField(c))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, board.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, board.ErrMemberNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown assignee"})
	case errors.Is(err, board.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide fields to update"})
	case errors.Is(err, board.ErrEmptyTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
	default:
		s.log.Error("store failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func callerField(c *gin.Context) zap.Field {
	if id, ok := auth.IdentityFrom(c); ok {
		return zap.String("by", id.Username)
	}
	return zap.Skip()
}

// queryList accepts both ?k=a&k=b and ?k=a,b.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		out = append(out, utils.SplitFields(strings.ToLower(v))...)
	}
	return out
}
