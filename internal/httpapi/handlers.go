package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xaenox/teampulse/internal/behavior"
	"github.com/xaenox/teampulse/internal/engine"
	"github.com/xaenox/teampulse/internal/models"
)

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) alerts(c *gin.Context) {
	var req alertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.User == nil || *req.User == "" {
		badRequest(c, errors.New("user is required"))
		return
	}
	if req.Behavior == nil {
		badRequest(c, errors.New("behavior is required"))
		return
	}
	if req.Task == nil {
		badRequest(c, errors.New("task is required"))
		return
	}

	b, err := req.Behavior.snapshot()
	if err != nil {
		badRequest(c, err)
		return
	}
	t, err := req.Task.snapshot()
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, engine.EvaluateAlerts(*req.User, b, t))
}

func (s *Server) leaderboard(c *gin.Context) {
	limit := s.opts.LeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, fmt.Errorf("limit must be a non-negative integer, got %q", raw))
			return
		}
		limit = n
	}

	var req map[string]*behaviorPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	users := make(map[string]models.BehaviorSnapshot, len(req))
	for user, payload := range req {
		if payload == nil {
			badRequest(c, fmt.Errorf("behavior for %q is required", user))
			return
		}
		b, err := payload.scoringSnapshot()
		if err != nil {
			badRequest(c, fmt.Errorf("%s: %w", user, err))
			return
		}
		users[user] = b
	}

	c.JSON(http.StatusOK, engine.TopN(engine.ScoreLeaderboard(users), limit))
}

func (s *Server) deriveBehavior(c *gin.Context) {
	var log models.ActivityLog
	if err := c.ShouldBindJSON(&log); err != nil {
		badRequest(c, err)
		return
	}
	if log.Commits < 0 || log.FileEdits.Total < 0 || log.FileEdits.Reverts < 0 {
		badRequest(c, errors.New("counts must not be negative"))
		return
	}

	c.JSON(http.StatusOK, behavior.Derive(log, s.opts.Now()))
}

func (s *Server) sendMessage(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.User == nil || *req.User == "" {
		badRequest(c, errors.New("user is required"))
		return
	}
	if req.Text == nil {
		badRequest(c, errors.New("text is required"))
		return
	}

	res, err := s.chat.Send(c.Request.Context(), *req.User, *req.Text)
	if err != nil {
		s.internalError(c, "failed to store message", err)
		return
	}

	c.JSON(http.StatusOK, res.Message)
}

func (s *Server) listMessages(c *gin.Context) {
	messages, err := s.chat.Messages(c.Request.Context())
	if err != nil {
		s.internalError(c, "failed to load messages", err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) listCommitments(c *gin.Context) {
	commitments, err := s.chat.Commitments(c.Request.Context())
	if err != nil {
		s.internalError(c, "failed to load commitments", err)
		return
	}
	c.JSON(http.StatusOK, commitments)
}

func (s *Server) digest(c *gin.Context) {
	summary, err := s.chat.Digest(c.Request.Context())
	if err != nil {
		s.internalError(c, "failed to build digest", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
