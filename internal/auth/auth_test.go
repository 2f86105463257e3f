package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.GenerateAccessToken("ops@cabins", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@cabins", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.GenerateAccessToken("ops", RoleAdmin)
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).ParseAndValidate(token)
	assert.Error(t, err, "wrong secret")

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.ParseAndValidate(token)
	assert.Error(t, err, "expired")

	_, err = m.ParseAndValidate("not-a-token")
	assert.Error(t, err)
}

func TestAdminRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("secret", time.Hour)

	admin, err := m.GenerateAccessToken("ops", RoleAdmin)
	require.NoError(t, err)
	guest, err := m.GenerateAccessToken("someone", "guest")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin", AdminRequired(m), func(c *gin.Context) {
		c.String(http.StatusOK, GetSubject(c))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "Missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "Garbage token", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "Not an admin", header: "Bearer " + guest, wantStatus: http.StatusForbidden},
		{name: "Admin", header: "Bearer " + admin, wantStatus: http.StatusOK, wantBody: "ops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
