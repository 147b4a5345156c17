package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rhzslya/sinari-server-sub000/internal/middleware"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: "tester",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func buildRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	staff := r.Group("/", middleware.JWTAuth(testSecret))
	staff.PATCH("/products/:id/stock",
		middleware.RequireRole(model.RoleAdmin, model.RoleOwner),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	staff.PATCH("/product-logs/:logId/void",
		middleware.RequireRole(model.RoleOwner),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/products/1/stock", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_MissingToken(t *testing.T) {
	w := doRequest(buildRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestJWTAuth_GarbageToken(t *testing.T) {
	w := doRequest(buildRouter(), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestRequireRole_CustomerRejectedOnStockAdjust(t *testing.T) {
	w := doRequest(buildRouter(), signToken(t, model.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient permissions")
}

func TestRequireRole_AdminAllowedOnStockAdjust(t *testing.T) {
	w := doRequest(buildRouter(), signToken(t, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_AdminRejectedOnVoid(t *testing.T) {
	r := buildRouter()
	req := httptest.NewRequest(http.MethodPatch, "/product-logs/1/void", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, model.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_OwnerAllowedOnVoid(t *testing.T) {
	r := buildRouter()
	req := httptest.NewRequest(http.MethodPatch, "/product-logs/1/void", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, model.RoleOwner))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
