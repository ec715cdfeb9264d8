package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGuardedRouter(t *testing.T, verifier auth.Verifier) (*gin.Engine, *bool) {
	t.Helper()
	ran := new(bool)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/guarded", VerifyToken(verifier, zap.NewNop()), VerifyEmail(), func(c *gin.Context) {
		*ran = true
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return r, ran
}

func newVerifier(t *testing.T) *auth.JWTVerifier {
	t.Helper()
	v, err := auth.NewJWTVerifier("test-secret")
	require.NoError(t, err)
	return v
}

func signToken(t *testing.T, v *auth.JWTVerifier, email string) string {
	t.Helper()
	token, err := v.Sign("uid", email, time.Hour)
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestVerifyToken_MissingOrMalformedHeader(t *testing.T) {
	v := newVerifier(t)
	r, ran := newGuardedRouter(t, v)

	tests := []struct {
		name   string
		header string
	}{
		{"absent", ""},
		{"no scheme", signToken(t, v, "a@x.com")},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"lowercase scheme", "bearer " + signToken(t, v, "a@x.com")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded?email=a@x.com", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "unauthorized", body.Error.Code)
			assert.Equal(t, "unauthorized access", body.Message)
			assert.NotEmpty(t, body.Error.RequestID)
			assert.False(t, *ran)
		})
	}
}

func TestVerifyToken_InvalidToken(t *testing.T) {
	r, ran := newGuardedRouter(t, newVerifier(t))

	other, err := auth.NewJWTVerifier("other-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/guarded?email=a@x.com", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, other, "a@x.com"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *ran)
}

func TestVerifyEmail_Mismatch(t *testing.T) {
	v := newVerifier(t)
	r, ran := newGuardedRouter(t, v)

	for _, query := range []string{"?email=b@x.com", ""} {
		req := httptest.NewRequest(http.MethodGet, "/guarded"+query, nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, v, "a@x.com"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, query)
		assert.Equal(t, "forbidden", decodeError(t, rec).Error.Code)
		assert.False(t, *ran)
	}
}

func TestVerifyEmail_Match(t *testing.T) {
	v := newVerifier(t)
	r, ran := newGuardedRouter(t, v)

	req := httptest.NewRequest(http.MethodGet, "/guarded?email=a@x.com", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, v, "a@x.com"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"a@x.com"}`, rec.Body.String())
	assert.True(t, *ran)
}

func TestVerifyEmail_WithoutVerifyToken(t *testing.T) {
	r := gin.New()
	r.GET("/", VerifyEmail(), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?email=a@x.com", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
