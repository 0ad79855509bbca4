package mdash

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auth "kyri56xcaesar/pms-dash/internal/authmw"
	"kyri56xcaesar/pms-dash/internal/board"
	"kyri56xcaesar/pms-dash/internal/logger"
)

const (
	apiVersion = "/api/v1"
)

type Server struct {
	config Config
	store  *board.Store
	log    *zap.Logger
	engine *gin.Engine
	auth   *auth.KeycloakAuth
	now    func() time.Time
}

type ServerOption func(*Server)

// WithAuth protects the write routes with the given authenticator.
func WithAuth(a *auth.KeycloakAuth) ServerOption {
	return func(s *Server) { s.auth = a }
}

func WithNow(now func() time.Time) ServerOption {
	return func(s *Server) { s.now = now }
}

func NewServer(config Config, store *board.Store, log *zap.Logger, opts ...ServerOption) *Server {
	s := &Server{
		config: config,
		store:  store,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.UpcomingWindow <= 0 {
		s.config.UpcomingWindow = board.DefaultUpcomingWindow
	}

	setGinMode(config.ApiGinMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), logger.GinLogger(log))
	s.setCors()
	s.setRoutes()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setCors() {
	corsconfig := cors.DefaultConfig()
	corsconfig.AllowOrigins = s.config.AllowedOrigins
	corsconfig.AllowMethods = s.config.AllowedMethods
	corsconfig.AllowHeaders = s.config.AllowedHeaders
	s.engine.Use(cors.New(corsconfig))
}

func (s *Server) setRoutes() {
	root := s.engine.Group("/")
	{
		root.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "alive"})
		})
	}

	api := s.engine.Group(apiVersion)
	{
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/roster", s.handleRoster)
		api.GET("/projects", s.handleListProjects)
		api.GET("/projects/:id", s.handleProject)
		api.GET("/projects/:id/board", s.handleBoard)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/:id", s.handleTask)
		api.GET("/calendar", s.handleCalendar)
		api.GET("/timeline", s.handleTimeline)
	}

	write := api.Group("/")
	if s.auth != nil {
		// writes need a leader or admin token
		write.Use(s.auth.RequireRoles("leader", "admin"))
	}
	{
		write.POST("/tasks", s.handleTaskCreate)
		write.PUT("/tasks/:id", s.handleTaskUpdate)
		write.PATCH("/tasks/:id/status", s.handleTaskPatch)
		write.DELETE("/tasks/:id", s.handleTaskDelete)
	}

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "bad path"})
	})
}

// InitAndServe loads the configuration at confPath, seeds the store and
// serves until SIGINT/SIGTERM.
func InitAndServe(confPath string) error {
	config, err := LoadConfig(confPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{Level: config.LogLevel, File: config.LogFile})
	defer func() { _ = log.Sync() }()
	if config.ConfigPath == "" {
		log.Warn("config file not loaded, using environment and defaults", zap.String("path", confPath))
	}
	if config.Verbose {
		log.Info("configuration", config.Fields()...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := board.NewMockStore(time.Now())
	if err != nil {
		return fmt.Errorf("seed dataset: %w", err)
	}
	if config.RosterSource == "keycloak" {
		syncRoster(ctx, config, store, log)
	}

	var opts []ServerOption
	if config.AuthEnabled {
		jwksURL := fmt.Sprintf("http://%s/realms/%s/protocol/openid-connect/certs", config.AuthAddress, config.Realm)
		kcAuth, err := auth.NewKeycloakAuth(jwksURL, config.Issuer, config.Audience, config.ClientID)
		if err != nil {
			return fmt.Errorf("init keycloak auth: %w", err)
		}
		defer kcAuth.Close()
		opts = append(opts, WithAuth(kcAuth))
	}

	srv := NewServer(config, store, log, opts...)

	digest, err := StartDigest(store, config.DigestInterval, config.UpcomingWindow, log)
	if err != nil {
		return err
	}
	defer digest.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: time.Second * 5,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	stop()
	log.Info("shutting down gracefully, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exiting")
	return nil
}

// syncRoster adds the realm users to the roster. Failures leave the seeded
// roster in place.
func syncRoster(ctx context.Context, config Config, store *board.Store, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dir := auth.NewDirectory(config.AuthAddress, config.Realm, config.ClientID, config.ClientSecret)
	members, err := dir.Members(ctx, config.RosterMax)
	if err != nil {
		log.Error("roster sync failed", zap.Error(err))
		return
	}

	added := 0
	for _, m := range members {
		if err := store.AddMember(m); err != nil {
			log.Debug("skipping roster member", zap.String("id", m.ID), zap.Error(err))
			continue
		}
		added++
	}
	log.Info("roster synced from keycloak", zap.Int("added", added), zap.Int("fetched", len(members)))
}

func setGinMode(mode string) {
	switch strings.ToLower(mode) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "envgin":
		gin.SetMode(os.Getenv(gin.EnvGinMode))
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}
