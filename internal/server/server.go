// Package server exposes the store over a small JSON API for scripts,
// widgets and push handoff.
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/things/internal/store"
)

// Notifier reloads the aggregate after a remote change.
type Notifier interface {
	HandleRemoteNotification(ctx context.Context, payload map[string]any) bool
}

type Options struct {
	Notifier    Notifier
	WidgetLimit int
	Logger      *log.Logger
	// AccessLog enables gin's request logger on Logger's writer.
	AccessLog bool
}

type Server struct {
	store       *store.Store
	notifier    Notifier
	widgetLimit int
	logger      *log.Logger
	router      *gin.Engine
}

func New(st *store.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	limit := opts.WidgetLimit
	if limit <= 0 {
		limit = 3
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.AccessLog {
		router.Use(gin.LoggerWithWriter(logger.Writer()))
	}

	s := &Server{
		store:       st,
		notifier:    opts.Notifier,
		widgetLimit: limit,
		logger:      logger,
		router:      router,
	}

	api := router.Group("/api")
	{
		api.GET("/lists/:list", s.handleList)
		api.GET("/tasks/:id", s.handleGetTask)
		api.POST("/tasks", s.handleCreateTask)
		api.POST("/tasks/:id/toggle", s.handleToggle)
		api.POST("/tasks/:id/cancel", s.handleCancel)
		api.DELETE("/tasks/:id", s.handleDelete)
		api.GET("/projects/:id/progress", s.handleProgress)
		api.GET("/search", s.handleSearch)
		api.GET("/widget", s.handleWidget)
		api.POST("/open", s.handleOpen)
		api.POST("/notify", s.handleNotify)
		api.POST("/trash/empty", s.handleEmptyTrash)
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
