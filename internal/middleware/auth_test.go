package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/platefeed/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
}

func (s *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token == "good" && s.claims != nil {
		return s.claims, nil
	}
	return nil, errors.New("invalid token")
}

func newAuthTestRouter(required bool, validator TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	mw := OptionalAuthMiddleware(validator)
	if required {
		mw = AuthMiddleware(validator)
	}
	router.GET("/probe", mw, func(c *gin.Context) {
		_, authed := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})
	return router
}

func probe(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	validator := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Username: "alice"}}
	router := newAuthTestRouter(true, validator)

	assert.Equal(t, http.StatusUnauthorized, probe(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(router, "Bearer bad").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(router, "Basic good").Code)

	w := probe(router, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authed":true`)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	validator := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Username: "alice"}}
	router := newAuthTestRouter(false, validator)

	w := probe(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authed":false`)

	// A bad token degrades to anonymous instead of rejecting.
	w = probe(router, "Bearer bad")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authed":false`)

	w = probe(router, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authed":true`)
}
