package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/things/internal/commands"
	"github.com/sandeepkv93/things/internal/store"
	"github.com/sandeepkv93/things/internal/workflow"
)

const maxQuerySize = 1 << 10

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalid):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleList(c *gin.Context) {
	list, ok := workflow.ParseList(c.Param("list"))
	if !ok {
		fail(c, http.StatusNotFound, "unknown list")
		return
	}
	tasks := s.store.Tasks(list)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"list":    list,
		"title":   list.Title(),
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.store.Task(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}

type createTaskRequest struct {
	Title     string   `json:"title" binding:"required"`
	Notes     string   `json:"notes"`
	When      string   `json:"when"`
	Deadline  string   `json:"deadline"`
	Project   string   `json:"project"`
	Area      string   `json:"area"`
	Tags      []string `json:"tags"`
	Checklist []string `json:"checklist"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	draft := store.TaskDraft{
		Title:     req.Title,
		Notes:     req.Notes,
		Tags:      req.Tags,
		Checklist: req.Checklist,
	}
	now := s.store.Now()
	if strings.TrimSpace(req.When) != "" {
		when, err := commands.ParseWhen(req.When, now)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		draft.StartDate = when.Start
		draft.Someday = when.Someday
		draft.Evening = when.Evening
	}
	if strings.TrimSpace(req.Deadline) != "" {
		d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(req.Deadline), s.store.Location())
		if err != nil {
			fail(c, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
		draft.Deadline = &d
	}

	db := s.store.Snapshot()
	if req.Project != "" {
		p, ok := db.ProjectByTitle(req.Project)
		if !ok {
			fail(c, http.StatusNotFound, "unknown project")
			return
		}
		draft.ProjectID = &p.ID
	}
	if req.Area != "" {
		a, ok := db.AreaByTitle(req.Area)
		if !ok {
			fail(c, http.StatusNotFound, "unknown area")
			return
		}
		draft.AreaID = &a.ID
	}

	task, err := s.store.AddTask(draft)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      task.ID,
		"data":    task,
	})
}

func (s *Server) handleToggle(c *gin.Context) {
	res, err := s.store.ToggleCompletion(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	body := gin.H{
		"success":   true,
		"completed": res.Completed,
	}
	if res.Spawned != nil {
		body["spawned_id"] = res.Spawned.ID
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleCancel(c *gin.Context) {
	if err := s.store.Cancel(c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task canceled",
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.store.DeleteTask(c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted",
	})
}

func (s *Server) handleProgress(c *gin.Context) {
	progress, err := s.store.Progress(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"progress": progress,
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if len(query) > maxQuerySize {
		fail(c, http.StatusBadRequest, "query exceeds maximum size of 1KB")
		return
	}
	if strings.TrimSpace(query) == "" {
		fail(c, http.StatusBadRequest, "query parameter required")
		return
	}
	results := s.store.Search(query)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleWidget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    s.store.Widget(s.widgetLimit),
	})
}

type openRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleOpen(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		var req openRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			raw = req.URL
		}
	}
	if strings.TrimSpace(raw) == "" {
		fail(c, http.StatusBadRequest, "url required")
		return
	}
	if !s.store.OpenURL(raw) {
		fail(c, http.StatusUnprocessableEntity, "url not handled")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"handled": true,
	})
}

// handleNotify accepts an opaque push payload and triggers a reload.
func (s *Server) handleNotify(c *gin.Context) {
	if s.notifier == nil {
		fail(c, http.StatusServiceUnavailable, "remote sync disabled")
		return
	}
	payload := map[string]any{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	reloaded := s.notifier.HandleRemoteNotification(c.Request.Context(), payload)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"reloaded": reloaded,
	})
}

func (s *Server) handleEmptyTrash(c *gin.Context) {
	removed := s.store.EmptyTrash()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"removed": removed,
	})
}
