package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	contractorRepo "fixmate/database/repository/contractor"
	"fixmate/models"
	"fixmate/utils"
)

// ContractorHandler manages the contractor pool records the dispatch engine
// draws candidates from.
type ContractorHandler struct {
	Repo   contractorRepo.ContractorRepository
	Logger *zap.Logger
}

func NewContractorHandler(repo contractorRepo.ContractorRepository, logger *zap.Logger) *ContractorHandler {
	return &ContractorHandler{Repo: repo, Logger: logger}
}

// RegisterContractor creates a contractor record.
func (h *ContractorHandler) RegisterContractor(c *gin.Context) {
	var contractor models.ContractorProfile
	if err := c.ShouldBindJSON(&contractor); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if !contractor.LocationGeo.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "contractor location coordinates are invalid")
		return
	}
	if contractor.MaxConcurrentJobs < 1 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "maxConcurrentJobs must be at least 1")
		return
	}
	if contractor.ID == "" {
		contractor.ID = uuid.New().String()
	}

	if err := h.Repo.Create(&contractor); err != nil {
		h.Logger.Error("failed to register contractor", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to register contractor", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contractor": contractor})
}

// GetContractorByID fetches one contractor record.
func (h *ContractorHandler) GetContractorByID(c *gin.Context) {
	id := c.Param("id")
	contractor, err := h.Repo.GetByID(id)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "contractor not found", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contractor": contractor})
}

// UpdateContractor replaces a contractor record.
func (h *ContractorHandler) UpdateContractor(c *gin.Context) {
	var contractor models.ContractorProfile
	if err := c.ShouldBindJSON(&contractor); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if contractor.MaxConcurrentJobs < 1 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "maxConcurrentJobs must be at least 1")
		return
	}
	contractor.ID = c.Param("id")

	if err := h.Repo.Update(&contractor); err != nil {
		utils.JSONError(c, http.StatusNotFound, "failed to update contractor", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"contractor": contractor})
}

// DeleteContractor removes a contractor record.
func (h *ContractorHandler) DeleteContractor(c *gin.Context) {
	id := c.Param("id")
	if err := h.Repo.Delete(id); err != nil {
		utils.JSONError(c, http.StatusNotFound, "failed to delete contractor", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
