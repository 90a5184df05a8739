package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stageready/logger"
	"stageready/models"
	"stageready/services"
	"stageready/utils"
)

type SpeechController struct {
	repo *services.Repository
	log  *logger.Logger
}

func NewSpeechController(repo *services.Repository, log *logger.Logger) *SpeechController {
	return &SpeechController{repo: repo, log: log}
}

func speechFilterFromQuery(c *gin.Context) services.SpeechFilter {
	return services.SpeechFilter{
		Search:   c.Query("search"),
		Type:     c.DefaultQuery("type", "all"),
		User:     c.DefaultQuery("user", "all"),
		DateFrom: c.Query("dateFrom"),
		DateTo:   c.Query("dateTo"),
		MinScore: c.Query("minScore"),
		MaxScore: c.Query("maxScore"),
		SortBy:   c.DefaultQuery("sortBy", services.SortByDate),
	}
}

// loadAllSpeeches materializes the full corpus once; filtering happens in
// memory on the materialized list.
func (sc *SpeechController) loadAllSpeeches(c *gin.Context) ([]models.Speech, []models.User, bool) {
	users, err := sc.repo.ListUsers(c.Request.Context())
	if err != nil {
		sc.log.Error("user listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load speech data"})
		return nil, nil, false
	}
	speeches, err := sc.repo.ListAllSpeeches(c.Request.Context(), users)
	if err != nil {
		sc.log.Error("speech listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load speech data"})
		return nil, nil, false
	}
	return speeches, users, true
}

// ListSpeeches returns every speech matching the filter plus aggregate stats
// over the filtered set
func (sc *SpeechController) ListSpeeches(c *gin.Context) {
	speeches, users, ok := sc.loadAllSpeeches(c)
	if !ok {
		return
	}
	filtered := speechFilterFromQuery(c).Apply(speeches, users)
	c.JSON(http.StatusOK, gin.H{
		"speeches": filtered,
		"stats":    services.AggregateSpeeches(filtered),
	})
}

// ExportSpeeches streams the filtered speech set as CSV, user column included
func (sc *SpeechController) ExportSpeeches(c *gin.Context) {
	speeches, users, ok := sc.loadAllSpeeches(c)
	if !ok {
		return
	}
	filtered := speechFilterFromQuery(c).Apply(speeches, users)
	c.Header("Content-Disposition", `attachment; filename="`+utils.ExportFileName("speeches")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(utils.SpeechesCSV(filtered, true)))
}

// ListUserSpeeches returns one user's speech history, newest first
func (sc *SpeechController) ListUserSpeeches(c *gin.Context) {
	speeches, err := sc.repo.ListUserSpeeches(c.Request.Context(), c.Param("id"))
	if err != nil {
		sc.log.Error("speech listing failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load speeches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"speeches": speeches, "total": len(speeches)})
}

// ExportUserSpeeches streams one user's history as CSV, no user column
func (sc *SpeechController) ExportUserSpeeches(c *gin.Context) {
	user, err := sc.repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	speeches, err := sc.repo.ListUserSpeeches(c.Request.Context(), user.ID)
	if err != nil {
		sc.log.Error("speech export failed", "userId", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load speeches"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+utils.UserSpeechesFileName(user.DisplayName())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(utils.SpeechesCSV(speeches, false)))
}

// UpdateSpeech edits a speech's scalar fields
func (sc *SpeechController) UpdateSpeech(c *gin.Context) {
	var update models.SpeechUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}
	if err := sc.repo.UpdateSpeech(c.Request.Context(), c.Param("id"), c.Param("speechId"), update); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Speech not found"})
			return
		}
		sc.log.Error("speech update failed", "speechId", c.Param("speechId"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save speech"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Speech updated"})
}

// DeleteSpeech removes one speech from the user's history
func (sc *SpeechController) DeleteSpeech(c *gin.Context) {
	err := sc.repo.DeleteSpeech(c.Request.Context(), c.Param("id"), services.SpeechHistoryCollection, c.Param("speechId"))
	if err != nil {
		sc.log.Error("speech delete failed", "speechId", c.Param("speechId"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete speech"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Speech deleted"})
}
