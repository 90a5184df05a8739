package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"stageready/logger"
	"stageready/models"
	"stageready/services"
)

// LoginRequest represents the console login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SetupRequest creates the very first admin account
type SetupRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type AuthController struct {
	repo      *services.Repository
	jwtSecret string
	jwtExpiry int // minutes
	log       *logger.Logger
}

func NewAuthController(repo *services.Repository, jwtSecret string, jwtExpiry int, log *logger.Logger) *AuthController {
	return &AuthController{repo: repo, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry, log: log}
}

func (ac *AuthController) generateJWT(email, role string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Duration(ac.jwtExpiry) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.jwtSecret))
}

// Login authenticates an admin by email and password
func (ac *AuthController) Login(c *gin.Context) {
	var request LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	user, hash, err := ac.repo.GetUserByEmail(c.Request.Context(), request.Email)
	if err != nil {
		ac.log.Error("login lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	if user == nil || hash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(request.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	token, err := ac.generateJWT(user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"admin": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.DisplayName(),
		},
	})
}

// Setup creates the first admin account. Once any admin exists the endpoint
// is closed.
func (ac *AuthController) Setup(c *gin.Context) {
	var request SetupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	exists, err := ac.repo.HasAnyAdmin(c.Request.Context())
	if err != nil {
		ac.log.Error("admin check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check admin state"})
		return
	}
	if exists {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin account already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	id, err := ac.repo.CreateAdminUser(c.Request.Context(), request.Email, string(hashed), request.FirstName, request.LastName)
	if err != nil {
		ac.log.Error("admin creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
		return
	}
	ac.log.Info("first admin created", "email", request.Email)

	token, err := ac.generateJWT(request.Email, models.RoleAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"admin":       gin.H{"id": id, "email": request.Email},
	})
}

// Me returns the authenticated admin's profile
func (ac *AuthController) Me(c *gin.Context) {
	email := c.GetString("email")
	user, _, err := ac.repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
