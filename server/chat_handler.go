package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nhatminh/trolyai/plugin/ai"
	"github.com/nhatminh/trolyai/plugin/markdown"
	"github.com/nhatminh/trolyai/store"
)

// maxHistoryMessages caps how much stored history is replayed to the
// model per request.
const maxHistoryMessages = 20

type chatRequest struct {
	SessionUID string `json:"session_uid"`
	Message    string `json:"message"`
}

type chatResponse struct {
	SessionUID string `json:"session_uid"`
	Reply      string `json:"reply"`
	ReplyHTML  string `json:"reply_html"`
}

type sessionResponse struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	CreatedTs int64  `json:"created_ts"`
	UpdatedTs int64  `json:"updated_ts"`
}

type messageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedTs int64  `json:"created_ts"`
}

// handleChat answers one user message. An empty session_uid starts a new
// session titled with the first message.
func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	ctx := c.Request().Context()

	session, err := s.resolveSession(c, req.SessionUID, req.Message)
	if err != nil {
		return err
	}

	history, err := s.loadHistory(c, session.ID)
	if err != nil {
		return err
	}

	// One agent run at a time.
	if err := s.agentSem.Acquire(ctx, 1); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server is shutting down")
	}
	start := time.Now()
	reply, err := s.runner.Respond(ctx, history, req.Message)
	s.agentSem.Release(1)
	if err != nil {
		slog.Error("agent run failed", "session", session.UID, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "assistant is unavailable, please retry")
	}
	slog.Info("chat answered", "session", session.UID, "duration", time.Since(start))

	if _, err := s.Store.AppendMessage(ctx, &store.Message{
		SessionID: session.ID,
		Role:      store.MessageRoleUser,
		Content:   req.Message,
	}); err != nil {
		slog.Error("failed to persist user message", "error", err)
	}
	if _, err := s.Store.AppendMessage(ctx, &store.Message{
		SessionID: session.ID,
		Role:      store.MessageRoleAssistant,
		Content:   reply,
	}); err != nil {
		slog.Error("failed to persist assistant message", "error", err)
	}

	replyHTML, err := markdown.RenderHTML(reply)
	if err != nil {
		slog.Warn("failed to render reply markdown", "error", err)
		replyHTML = reply
	}

	return c.JSON(http.StatusOK, &chatResponse{
		SessionUID: session.UID,
		Reply:      reply,
		ReplyHTML:  replyHTML,
	})
}

func (s *Server) resolveSession(c echo.Context, uid, firstMessage string) (*store.Session, error) {
	ctx := c.Request().Context()

	if uid == "" {
		session, err := s.Store.CreateSession(ctx, sessionTitle(firstMessage))
		if err != nil {
			slog.Error("failed to create session", "error", err)
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to create session")
		}
		return session, nil
	}

	session, err := s.Store.GetSession(ctx, &store.FindSession{UID: &uid})
	if err != nil {
		slog.Error("failed to load session", "uid", uid, "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load session")
	}
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return session, nil
}

func (s *Server) loadHistory(c echo.Context, sessionID int32) ([]ai.Message, error) {
	msgs, err := s.Store.ListMessages(c.Request().Context(), &store.FindMessage{SessionID: &sessionID})
	if err != nil {
		slog.Error("failed to load history", "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load history")
	}

	if len(msgs) > maxHistoryMessages {
		msgs = msgs[len(msgs)-maxHistoryMessages:]
	}

	history := make([]ai.Message, 0, len(msgs))
	for _, m := range msgs {
		role := ai.RoleUser
		if m.Role == store.MessageRoleAssistant {
			role = ai.RoleAssistant
		}
		history = append(history, ai.Message{Role: role, Content: m.Content})
	}
	return history, nil
}

func (s *Server) handleListSessions(c echo.Context) error {
	sessions, err := s.Store.ListSessions(c.Request().Context(), &store.FindSession{})
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list sessions")
	}

	resp := make([]*sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		resp = append(resp, &sessionResponse{
			UID:       sess.UID,
			Title:     sess.Title,
			CreatedTs: sess.CreatedTs,
			UpdatedTs: sess.UpdatedTs,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListMessages(c echo.Context) error {
	uid := c.Param("uid")
	session, err := s.Store.GetSession(c.Request().Context(), &store.FindSession{UID: &uid})
	if err != nil {
		slog.Error("failed to load session", "uid", uid, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load session")
	}
	if session == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	msgs, err := s.Store.ListMessages(c.Request().Context(), &store.FindMessage{SessionID: &session.ID})
	if err != nil {
		slog.Error("failed to list messages", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list messages")
	}

	resp := make([]*messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, &messageResponse{
			Role:      m.Role,
			Content:   m.Content,
			CreatedTs: m.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	uid := c.Param("uid")
	session, err := s.Store.GetSession(c.Request().Context(), &store.FindSession{UID: &uid})
	if err != nil {
		slog.Error("failed to load session", "uid", uid, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load session")
	}
	if session == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	if err := s.Store.DeleteSession(c.Request().Context(), session.ID); err != nil {
		slog.Error("failed to delete session", "uid", uid, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete session")
	}
	return c.NoContent(http.StatusNoContent)
}

// sessionTitle derives a session title from the opening message.
func sessionTitle(message string) string {
	const maxTitleRunes = 60
	runes := []rune(message)
	if len(runes) <= maxTitleRunes {
		return message
	}
	return string(runes[:maxTitleRunes]) + "..."
}
