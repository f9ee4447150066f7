package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSessionValue_ReportsOversizedCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("session-test-secret"))))

	var saveErr error
	var kept string
	r.POST("/", func(c *gin.Context) {
		require.NoError(t, SetSessionValue(c, "cart", "small"))
		saveErr = SetSessionValue(c, "cart", strings.Repeat("x", 5000))
		kept = SessionValue(c, "cart")
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

	assert.ErrorIs(t, saveErr, ErrSessionStore)
	assert.Equal(t, "small", kept, "a failed save leaves the previous value in place")
}

func TestHandleServiceError_SessionAndCartErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleServiceError(c, ErrCartFull)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	HandleServiceError(c, ErrSessionStore)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
