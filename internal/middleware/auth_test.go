package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juniorkpabitey/virtra/pkg/auth"
)

func testRouter(t *testing.T) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	})

	r := gin.New()
	m := NewAuthMiddleware(jwtSvc)
	protected := r.Group("/", m.Authenticate())
	protected.POST("/appointments", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "success", "user_id": c.GetString(ContextUserID)})
	})

	doctor := protected.Group("/doctor", m.RequireUserType("doctor"))
	doctor.GET("/patients", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	return r, jwtSvc
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	r, jwtSvc := testRouter(t)
	userID := uuid.New()

	token, err := jwtSvc.GenerateAccessToken(userID, "ama@example.com", "patient")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRequireUserTypeBlocksPatients(t *testing.T) {
	r, jwtSvc := testRouter(t)

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "ama@example.com", "patient")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/doctor/patients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireUserTypeAllowsDoctors(t *testing.T) {
	r, jwtSvc := testRouter(t)

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "dr@example.com", "doctor")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/doctor/patients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
