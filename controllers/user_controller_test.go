package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stageready/logger"
)

func putJSON(t *testing.T, handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "507f1f77bcf86cd799439011"}}
	c.Request = httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestUpdateUserRejectsUnknownRole(t *testing.T) {
	// Role changes through the profile edit face the same validation as the
	// dedicated role endpoint. Validation runs before any store access.
	uc := NewUserController(nil, nil, logger.NewNop())

	w := putJSON(t, uc.UpdateUser, "/admin/users/507f1f77bcf86cd799439011", `{"role":"superadmin"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Role must be 'user' or 'admin'")
}

func TestUpdateUserRejectsMalformedBody(t *testing.T) {
	uc := NewUserController(nil, nil, logger.NewNop())

	w := putJSON(t, uc.UpdateUser, "/admin/users/507f1f77bcf86cd799439011", `{"role":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	uc := NewUserController(nil, nil, logger.NewNop())

	w := putJSON(t, uc.UpdateRole, "/admin/users/507f1f77bcf86cd799439011/role", `{"role":"moderator"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Role must be 'user' or 'admin'")
}
