package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stageready/logger"
	"stageready/services"
)

type DashboardController struct {
	stats *services.StatsService
	log   *logger.Logger
}

func NewDashboardController(stats *services.StatsService, log *logger.Logger) *DashboardController {
	return &DashboardController{stats: stats, log: log}
}

// GetStats recomputes and returns the dashboard snapshot
func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.stats.DashboardStats(c.Request.Context())
	if err != nil {
		dc.log.Error("stats aggregation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
