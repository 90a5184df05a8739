package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stageready/logger"
	"stageready/models"
	"stageready/services"
)

type GamificationController struct {
	repo *services.Repository
	log  *logger.Logger
}

func NewGamificationController(repo *services.Repository, log *logger.Logger) *GamificationController {
	return &GamificationController{repo: repo, log: log}
}

// GetGamification returns the user's gamification record, or null when the
// user has none yet (not an error)
func (gc *GamificationController) GetGamification(c *gin.Context) {
	gam, err := gc.repo.GetGamification(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.log.Error("gamification fetch failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load gamification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gamification": gam})
}

// UpdateGamification merges the supplied fields, creating the record if the
// user has none yet
func (gc *GamificationController) UpdateGamification(c *gin.Context) {
	var update models.GamificationUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}
	if err := gc.repo.UpsertGamification(c.Request.Context(), c.Param("id"), update); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		gc.log.Error("gamification update failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save gamification"})
		return
	}
	gam, err := gc.repo.GetGamification(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Gamification updated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gamification": gam})
}

// GetBadges returns the user's badge progress, or null when none exists
func (gc *GamificationController) GetBadges(c *gin.Context) {
	progress, err := gc.repo.GetBadgeProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.log.Error("badge fetch failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load badges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": progress})
}

// UpdateBadges replaces the badge sequence. The unlocked/total counts are
// derived server-side from the sequence and returned in the response.
func (gc *GamificationController) UpdateBadges(c *gin.Context) {
	var request struct {
		Badges []models.Badge `json:"badges"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}
	progress, err := gc.repo.UpdateBadgeProgress(c.Request.Context(), c.Param("id"), request.Badges)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Badge record not found"})
			return
		}
		gc.log.Error("badge update failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save badges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": progress})
}
