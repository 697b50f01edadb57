package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/idgen"
	"github.com/skarkon/crowsnest/internal/logging"
	"github.com/skarkon/crowsnest/internal/metrics"
	"github.com/skarkon/crowsnest/internal/realtime"
	"github.com/skarkon/crowsnest/internal/rules"
	"github.com/skarkon/crowsnest/internal/verdicts"
)

// -----------------------------------------------------------------------------
// Screening
// -----------------------------------------------------------------------------

// analyzeRequest carries the assembled applicant profile. Data collection
// happens upstream; the engine only judges what it is given.
type analyzeRequest struct {
	Profile     *analysis.Profile `json:"profile" binding:"required"`
	RequestedBy string            `json:"requestedBy"`
}

// analyzeHandler handles POST /api/v1/analyze
func (s *Server) analyzeHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}
	if req.Profile.CharacterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_profile",
			"message": "profile.character_id is required",
		})
		return
	}
	if req.RequestedBy == "" {
		req.RequestedBy = c.GetHeader("X-Requested-By")
	}

	verdict, err := s.engine.Evaluate(ctx, req.Profile, req.RequestedBy)
	if err != nil {
		logging.L(ctx).Error("analysis failed", "error", err, "character_id", req.Profile.CharacterID)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "analysis_failed",
			"message": "Failed to analyze character",
		})
		return
	}

	if err := s.verdicts.Record(ctx, verdict); err != nil {
		// The verdict is already computed; persistence failure shouldn't
		// cost the caller the result.
		metrics.VerdictsPersisted.WithLabelValues("error").Inc()
		logging.L(ctx).Error("failed to persist verdict", "error", err, "verdict_id", verdict.ID)
	} else {
		metrics.VerdictsPersisted.WithLabelValues("ok").Inc()
	}

	s.realtimeHub.BroadcastVerdict(verdict)

	c.JSON(http.StatusOK, verdict)
}

// getVerdictHandler handles GET /api/v1/verdicts/:id
func (s *Server) getVerdictHandler(c *gin.Context) {
	v, err := s.verdicts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, verdicts.ErrVerdictNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Verdict not found",
			})
			return
		}
		logging.L(c.Request.Context()).Error("failed to load verdict", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load verdict",
		})
		return
	}
	c.JSON(http.StatusOK, v)
}

// listVerdictsHandler handles GET /api/v1/verdicts
func (s *Server) listVerdictsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := s.verdicts.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list verdicts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list verdicts",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdicts": list, "count": len(list)})
}

// characterVerdictsHandler handles GET /api/v1/characters/:characterId/verdicts
func (s *Server) characterVerdictsHandler(c *gin.Context) {
	characterID, err := strconv.ParseInt(c.Param("characterId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_character_id",
			"message": "characterId must be numeric",
		})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := s.verdicts.ListByCharacter(c.Request.Context(), characterID, limit)
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list verdicts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list verdicts",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdicts": list, "count": len(list)})
}

// -----------------------------------------------------------------------------
// Screening rules
// -----------------------------------------------------------------------------

type ruleRequest struct {
	Code      string          `json:"code" binding:"required"`
	Severity  string          `json:"severity" binding:"required"`
	Condition rules.Condition `json:"condition" binding:"required"`
	Message   string          `json:"message" binding:"required"`
	Enabled   *bool           `json:"enabled"`
}

// createRuleHandler handles POST /api/v1/rules
func (s *Server) createRuleHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	now := time.Now().UTC()
	rule := &rules.Rule{
		ID:        idgen.WithPrefix("rul_"),
		Code:      req.Code,
		Severity:  req.Severity,
		Condition: req.Condition,
		Message:   req.Message,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_rule",
			"message": err.Error(),
		})
		return
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		if errors.Is(err, rules.ErrCodeTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "code_taken",
				"message": "A rule with this code already exists",
			})
			return
		}
		logging.L(ctx).Error("failed to create rule", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create rule",
		})
		return
	}

	s.realtimeHub.Broadcast(&realtime.Event{
		Type:      realtime.EventRuleChanged,
		Timestamp: now,
		Data:      gin.H{"action": "created", "ruleId": rule.ID, "code": rule.Code},
	})

	c.JSON(http.StatusCreated, rule)
}

// listRulesHandler handles GET /api/v1/rules
func (s *Server) listRulesHandler(c *gin.Context) {
	list, err := s.rules.List(c.Request.Context())
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list rules", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list rules",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": list, "count": len(list)})
}

// getRuleHandler handles GET /api/v1/rules/:id
func (s *Server) getRuleHandler(c *gin.Context) {
	rule, err := s.rules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, rules.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Rule not found",
			})
			return
		}
		logging.L(c.Request.Context()).Error("failed to load rule", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load rule",
		})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// updateRuleHandler handles PUT /api/v1/rules/:id
func (s *Server) updateRuleHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	existing, err := s.rules.Get(ctx, id)
	if err != nil {
		if errors.Is(err, rules.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Rule not found",
			})
			return
		}
		logging.L(ctx).Error("failed to load rule", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load rule",
		})
		return
	}

	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	existing.Code = req.Code
	existing.Severity = req.Severity
	existing.Condition = req.Condition
	existing.Message = req.Message
	if req.Enabled != nil {
		existing.Enabled = *req.Enabled
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_rule",
			"message": err.Error(),
		})
		return
	}

	if err := s.rules.Update(ctx, existing); err != nil {
		if errors.Is(err, rules.ErrCodeTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "code_taken",
				"message": "A rule with this code already exists",
			})
			return
		}
		logging.L(ctx).Error("failed to update rule", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update rule",
		})
		return
	}

	s.realtimeHub.Broadcast(&realtime.Event{
		Type:      realtime.EventRuleChanged,
		Timestamp: existing.UpdatedAt,
		Data:      gin.H{"action": "updated", "ruleId": existing.ID, "code": existing.Code},
	})

	c.JSON(http.StatusOK, existing)
}

// deleteRuleHandler handles DELETE /api/v1/rules/:id
func (s *Server) deleteRuleHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := s.rules.Delete(ctx, id); err != nil {
		if errors.Is(err, rules.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Rule not found",
			})
			return
		}
		logging.L(ctx).Error("failed to delete rule", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to delete rule",
		})
		return
	}

	s.realtimeHub.Broadcast(&realtime.Event{
		Type:      realtime.EventRuleChanged,
		Timestamp: time.Now().UTC(),
		Data:      gin.H{"action": "deleted", "ruleId": id},
	})

	c.Status(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// Watchlist
// -----------------------------------------------------------------------------

type watchlistEntryRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// addHostileCorpHandler handles POST /api/v1/watchlist/corps
func (s *Server) addHostileCorpHandler(c *gin.Context) {
	var req watchlistEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}
	s.watch.AddHostileCorp(req.ID)
	c.JSON(http.StatusOK, gin.H{"added": req.ID, "kind": "corp"})
}

// addHostileAllianceHandler handles POST /api/v1/watchlist/alliances
func (s *Server) addHostileAllianceHandler(c *gin.Context) {
	var req watchlistEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}
	s.watch.AddHostileAlliance(req.ID)
	c.JSON(http.StatusOK, gin.H{"added": req.ID, "kind": "alliance"})
}
