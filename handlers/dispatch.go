package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	contractorRepo "fixmate/database/repository/contractor"
	"fixmate/models"
	"fixmate/services/dispatch"
	"fixmate/utils"
)

// Pool search defaults when the caller does not inline a candidate pool.
const (
	defaultSearchRadiusKm = 25.0
	defaultPoolLimit      = 50
)

// DispatchHandler exposes the premium dispatch engine over HTTP.
type DispatchHandler struct {
	Engine         *dispatch.Engine
	ContractorRepo contractorRepo.ContractorRepository
	Logger         *zap.Logger
}

// NewDispatchHandler wires the handler.
func NewDispatchHandler(engine *dispatch.Engine, repo contractorRepo.ContractorRepository, logger *zap.Logger) *DispatchHandler {
	return &DispatchHandler{Engine: engine, ContractorRepo: repo, Logger: logger}
}

// StartDispatch begins a premium dispatch session. The candidate pool may be
// inlined by the caller (used by internal tooling and tests); otherwise it is
// fetched from the contractor store around the customer's location.
func (h *DispatchHandler) StartDispatch(c *gin.Context) {
	var input struct {
		Request       models.MatchRequest        `json:"request"`
		CandidatePool []models.ContractorProfile `json:"candidatePool,omitempty"`
		MaxDistanceKm float64                    `json:"maxDistanceKm,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	pool := input.CandidatePool
	if len(pool) == 0 {
		radius := input.MaxDistanceKm
		if radius <= 0 {
			radius = defaultSearchRadiusKm
		}
		found, err := h.ContractorRepo.Search(contractorRepo.ContractorSearchCriteria{
			ServiceID:     input.Request.ServiceID,
			LocationGeo:   input.Request.CustomerLocation,
			MaxDistanceKm: radius,
			Limit:         defaultPoolLimit,
		})
		if err != nil {
			h.Logger.Error("contractor pool search failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to load candidate pool", err.Error())
			return
		}
		pool = found
	}

	sessionID, err := h.Engine.StartDispatch(c.Request.Context(), input.Request, pool)
	if err != nil {
		var de *dispatch.DispatchError
		if errors.As(err, &de) && de.Code == dispatch.CodeInvalidInput {
			utils.JSONError(c, http.StatusBadRequest, "invalid dispatch request", de.Message)
			return
		}
		h.Logger.Error("failed to start dispatch", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to start dispatch", err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"sessionId": sessionID})
}

// GetStatus reports the progress of a session; for terminal sessions the
// result payload is included.
func (h *DispatchHandler) GetStatus(c *gin.Context) {
	sessionID := c.Param("sessionID")

	status, err := h.Engine.GetStatus(c.Request.Context(), sessionID)
	if err != nil {
		var de *dispatch.DispatchError
		if errors.As(err, &de) && de.Code == dispatch.CodeNotFound {
			utils.JSONError(c, http.StatusNotFound, "dispatch session not found", sessionID)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch session status", err.Error())
		return
	}

	resp := gin.H{"status": status}
	if models.IsTerminalState(status.State) {
		if result, err := h.Engine.Result(c.Request.Context(), sessionID); err == nil && result != nil {
			resp["result"] = result
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel requests cancellation of a running session.
func (h *DispatchHandler) Cancel(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if err := h.Engine.Cancel(sessionID); err != nil {
		var de *dispatch.DispatchError
		if errors.As(err, &de) && de.Code == dispatch.CodeNotFound {
			utils.JSONError(c, http.StatusNotFound, "dispatch session not found", sessionID)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel session", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "cancelled": true})
}
