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

type UserController struct {
	repo    *services.Repository
	cascade *services.CascadeService
	log     *logger.Logger
}

func NewUserController(repo *services.Repository, cascade *services.CascadeService, log *logger.Logger) *UserController {
	return &UserController{repo: repo, cascade: cascade, log: log}
}

func userFilterFromQuery(c *gin.Context) services.UserFilter {
	return services.UserFilter{
		Search: c.Query("search"),
		Role:   c.DefaultQuery("role", "all"),
		Gender: c.DefaultQuery("gender", "all"),
		SortBy: c.DefaultQuery("sortBy", "name"),
	}
}

// ListUsers returns the filtered, sorted user list
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.repo.ListUsers(c.Request.Context())
	if err != nil {
		uc.log.Error("user listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	filtered := userFilterFromQuery(c).Apply(users)
	c.JSON(http.StatusOK, gin.H{"users": filtered, "total": len(filtered)})
}

// ExportUsers streams the filtered user list as CSV
func (uc *UserController) ExportUsers(c *gin.Context) {
	users, err := uc.repo.ListUsers(c.Request.Context())
	if err != nil {
		uc.log.Error("user export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	filtered := userFilterFromQuery(c).Apply(users)
	c.Header("Content-Disposition", `attachment; filename="`+utils.ExportFileName("users")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(utils.UsersCSV(filtered)))
}

// GetUser returns one user by id
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		uc.log.Error("user fetch failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser merges the supplied profile fields into the user document
func (uc *UserController) UpdateUser(c *gin.Context) {
	var update models.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}
	if update.Role != nil && *update.Role != models.RoleUser && *update.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be 'user' or 'admin'"})
		return
	}
	if err := uc.repo.UpdateUser(c.Request.Context(), c.Param("id"), update); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		uc.log.Error("user update failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}
	user, err := uc.repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil || user == nil {
		c.JSON(http.StatusOK, gin.H{"message": "User updated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateRole promotes or demotes a user
func (uc *UserController) UpdateRole(c *gin.Context) {
	var request struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}
	if request.Role != models.RoleUser && request.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be 'user' or 'admin'"})
		return
	}
	if err := uc.repo.SetUserRole(c.Request.Context(), c.Param("id"), request.Role); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		uc.log.Error("role update failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "role": request.Role})
}

// DeleteUser cascades the deletion of a user and everything that depends on
// it. Safe to retry: if any document step fails the user document is left in
// place.
func (uc *UserController) DeleteUser(c *gin.Context) {
	if err := uc.cascade.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		uc.log.Error("cascade delete failed", "userId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
