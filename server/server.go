// Package server hosts the HTTP API and the embedded chat UI.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/nhatminh/trolyai/internal/profile"
	"github.com/nhatminh/trolyai/plugin/ai"
	"github.com/nhatminh/trolyai/store"
)

// AgentRunner answers one user message given prior conversation history.
// The agent implements it; tests substitute a fake.
type AgentRunner interface {
	Respond(ctx context.Context, history []ai.Message, userInput string) (string, error)
}

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	runner     AgentRunner

	// agentSem serializes agent runs; one model round-trip with tool
	// calls is expensive and the assistant is single-user.
	agentSem *semaphore.Weighted
}

func NewServer(profile *profile.Profile, st *store.Store, runner AgentRunner) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		Profile:    profile,
		Store:      st,
		echoServer: e,
		runner:     runner,
		agentSem:   semaphore.NewWeighted(1),
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	s.registerFrontendRoutes(e)

	apiGroup := e.Group("/api/v1")
	apiGroup.POST("/chat", s.handleChat)
	apiGroup.GET("/sessions", s.handleListSessions)
	apiGroup.GET("/sessions/:uid/messages", s.handleListMessages)
	apiGroup.DELETE("/sessions/:uid", s.handleDeleteSession)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)

	go func() {
		<-ctx.Done()
		s.Shutdown(context.Background())
	}()

	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}
	slog.Info("server stopped")
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echoServer
}
