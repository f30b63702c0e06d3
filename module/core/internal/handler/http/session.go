package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/service"
)

type sessionEngine interface {
	State() service.EngineState
	OnPause(ctx context.Context) error
	OnResume(ctx context.Context) error
}

type displayReader interface {
	SessionID() string
	State() domain.DisplayState
}

type visitService interface {
	ConfirmVisit(ctx context.Context) (string, bool, error)
	Visited() []string
	Total() int
	Reset()
}

type sessionResponse struct {
	SessionID string              `json:"session_id"`
	Engine    string              `json:"engine"`
	Display   domain.DisplayState `json:"display"`
}

type visitsResponse struct {
	Visited []string `json:"visited"`
	Count   int      `json:"count"`
	Total   int      `json:"total"`
}

type confirmResponse struct {
	Area    string `json:"area"`
	Created bool   `json:"created"`
	visitsResponse
}

type SessionHandler struct {
	engine  sessionEngine
	display displayReader
	visits  visitService
}

func NewSessionHandler(engine sessionEngine, display displayReader, visits visitService) *SessionHandler {
	return &SessionHandler{engine: engine, display: display, visits: visits}
}

func (h *SessionHandler) Register(r *gin.RouterGroup) {
	r.GET("/session", h.GetSession)
	r.POST("/session/pause", h.Pause)
	r.POST("/session/resume", h.Resume)
	r.GET("/visits", h.GetVisits)
	r.POST("/visits", h.ConfirmVisit)
	r.DELETE("/visits", h.ResetVisits)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionResponse())
}

func (h *SessionHandler) Pause(c *gin.Context) {
	err := h.engine.OnPause(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrEngineState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		// the engine is paused even when the flush fails
		log.WithError(err).Warn("flush on pause failed")
	}
	c.JSON(http.StatusOK, h.sessionResponse())
}

func (h *SessionHandler) Resume(c *gin.Context) {
	if err := h.engine.OnResume(c.Request.Context()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse())
}

func (h *SessionHandler) GetVisits(c *gin.Context) {
	c.JSON(http.StatusOK, h.visitsResponse())
}

func (h *SessionHandler) ConfirmVisit(c *gin.Context) {
	area, created, err := h.visits.ConfirmVisit(c.Request.Context())
	switch {
	case errors.Is(err, domain.ErrNoCurrentArea):
		c.JSON(http.StatusConflict, gin.H{"error": "no area discovered yet"})
		return
	case errors.Is(err, domain.ErrVisitLimitReached):
		c.JSON(http.StatusConflict, gin.H{"error": "all areas already visited"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm visit"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, confirmResponse{
		Area:           area,
		Created:        created,
		visitsResponse: h.visitsResponse(),
	})
}

func (h *SessionHandler) ResetVisits(c *gin.Context) {
	h.visits.Reset()
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) sessionResponse() sessionResponse {
	return sessionResponse{
		SessionID: h.display.SessionID(),
		Engine:    string(h.engine.State()),
		Display:   h.display.State(),
	}
}

func (h *SessionHandler) visitsResponse() visitsResponse {
	visited := h.visits.Visited()
	return visitsResponse{
		Visited: visited,
		Count:   len(visited),
		Total:   h.visits.Total(),
	}
}
