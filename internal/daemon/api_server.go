package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nriassist/internal/api"
	"nriassist/internal/assistant"
	"nriassist/internal/config"
	"nriassist/internal/logging"
	"nriassist/internal/services"
)

const requestIDHeader = "X-Request-ID"

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon
	router *gin.Engine

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	if cfg == nil || d == nil {
		return nil
	}
	bind := strings.TrimSpace(cfg.API.Bind)
	if bind == "" {
		return nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}
	router := gin.New()
	router.Use(gin.Recovery(), srv.requestContext())
	srv.registerRoutes(router.Group("/api", authMiddleware(cfg.API.Token)))
	srv.router = router

	srv.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) registerRoutes(group *gin.RouterGroup) {
	group.GET("/status", s.handleStatus)
	group.GET("/catalog", s.handleCatalog)
	group.GET("/roles", s.handleRoles)
	group.GET("/roles/:role/inbox", s.handleInbox)
	group.GET("/roles/:role/statistics", s.handleStatistics)
	group.GET("/applications", s.handleApplications)
	group.GET("/applications/:id", s.handleApplication)
	group.POST("/applications/:id/transition", s.handleTransition)
	group.GET("/search", s.handleSearch)

	sessions := group.Group("/sessions")
	sessions.GET("", s.handleSessionList)
	sessions.POST("", s.handleSessionCreate)
	sessions.GET("/:id", s.handleSessionGet)
	sessions.DELETE("/:id", s.handleSessionDelete)
	sessions.POST("/:id/messages", s.handleSessionMessage)
	sessions.PUT("/:id/mode", s.handleSessionMode)
	sessions.POST("/:id/uploads", s.handleSessionUpload)
	sessions.POST("/:id/reset", s.handleSessionReset)
}

// serve listens on the configured bind address until ctx is cancelled.
func (s *apiServer) serve(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.stop()
		return nil
	}
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// requestContext stamps a request id on the request context and response.
func (s *apiServer) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(services.WithRequestID(c.Request.Context(), id))
		start := time.Now()
		c.Next()
		s.log().Debug("api request",
			logging.String(logging.FieldCorrelationID, id),
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *apiServer) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.daemon.Status())
}

func (s *apiServer) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, s.daemon.Workflow().Catalog())
}

func (s *apiServer) handleRoles(c *gin.Context) {
	c.JSON(http.StatusOK, s.daemon.Workflow().Roles())
}

func (s *apiServer) handleInbox(c *gin.Context) {
	resp, err := s.daemon.Workflow().Inbox(c.Param("role"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *apiServer) handleStatistics(c *gin.Context) {
	resp, err := s.daemon.Workflow().Statistics(c.Param("role"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *apiServer) handleApplications(c *gin.Context) {
	var statuses []string
	for _, value := range c.QueryArray("status") {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			statuses = append(statuses, trimmed)
		}
	}
	apps, err := s.daemon.Workflow().List(statuses...)
	if err != nil {
		s.fail(c, err)
		return
	}
	if apps == nil {
		apps = []api.Application{}
	}
	c.JSON(http.StatusOK, api.ApplicationListResponse{Applications: apps})
}

func (s *apiServer) handleApplication(c *gin.Context) {
	resp, err := s.daemon.Workflow().Describe(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *apiServer) handleTransition(c *gin.Context) {
	var req api.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, services.Wrap(services.ErrValidation, "api", "transition", "invalid request body", err))
		return
	}
	resp, err := s.daemon.Advance(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *apiServer) handleSearch(c *gin.Context) {
	var threshold float64
	if raw := strings.TrimSpace(c.Query("threshold")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.fail(c, services.Wrap(services.ErrValidation, "api", "search", "invalid threshold", err))
			return
		}
		threshold = parsed
	}
	resp, err := s.daemon.Search(c.Query("q"), threshold, c.Query("scorer"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *apiServer) handleSessionList(c *gin.Context) {
	snaps := s.daemon.Sessions().List()
	out := make([]api.Session, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, api.FromSnapshot(snap))
	}
	c.JSON(http.StatusOK, api.SessionListResponse{Sessions: out})
}

func (s *apiServer) handleSessionCreate(c *gin.Context) {
	session := s.daemon.Sessions().Create()
	c.JSON(http.StatusCreated, api.SessionResponse{Session: api.FromSnapshot(session.Snapshot())})
}

func (s *apiServer) handleSessionGet(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.SessionResponse{Session: api.FromSnapshot(session.Snapshot())})
}

func (s *apiServer) handleSessionDelete(c *gin.Context) {
	if err := s.daemon.Sessions().Delete(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *apiServer) handleSessionMessage(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var req api.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, services.Wrap(services.ErrValidation, "api", "message", "invalid request body", err))
		return
	}
	ctx := services.WithSessionID(c.Request.Context(), session.ID())
	turns, err := session.Submit(ctx, req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.writeTurns(c, session, turns)
}

func (s *apiServer) handleSessionMode(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var req api.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, services.Wrap(services.ErrValidation, "api", "mode", "invalid request body", err))
		return
	}
	mode, err := assistant.ParseMode(req.Mode)
	if err != nil {
		s.fail(c, services.Wrap(services.ErrValidation, "api", "mode", "", err))
		return
	}
	if err := session.SetMode(mode); err != nil {
		s.fail(c, services.Wrap(services.ErrValidation, "api", "mode", "", err))
		return
	}
	c.JSON(http.StatusOK, api.SessionResponse{Session: api.FromSnapshot(session.Snapshot())})
}

func (s *apiServer) handleSessionUpload(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		s.fail(c, services.Wrap(services.ErrValidation, "api", "upload", "multipart field \"file\" is required", err))
		return
	}
	file, err := header.Open()
	if err != nil {
		s.fail(c, services.Wrap(services.ErrValidation, "api", "upload", "unreadable upload", err))
		return
	}
	defer file.Close()

	ctx := services.WithSessionID(c.Request.Context(), session.ID())
	turns, err := session.Upload(ctx, header.Filename, file)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.writeTurns(c, session, turns)
}

func (s *apiServer) handleSessionReset(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, api.SessionResponse{Session: api.FromSnapshot(session.Snapshot())})
}

func (s *apiServer) session(c *gin.Context) (*assistant.Session, bool) {
	session, err := s.daemon.Sessions().Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return session, true
}

func (s *apiServer) writeTurns(c *gin.Context, session *assistant.Session, turns []assistant.Turn) {
	c.JSON(http.StatusOK, api.TurnsResponse{
		Turns:   api.FromTurns(turns),
		Session: api.FromSnapshot(session.Snapshot()),
	})
}

// fail writes err as an ErrorResponse with the status its marker maps to.
func (s *apiServer) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.log().Error("api request failed",
			logging.String("path", c.FullPath()),
			logging.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, assistant.ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, assistant.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrReset):
		return http.StatusConflict
	default:
		return services.HTTPStatus(err)
	}
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}
