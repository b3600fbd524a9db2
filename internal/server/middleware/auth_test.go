package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/poultrypms/internal/server/middleware"
)

type stubValidator struct {
	id  primitive.ObjectID
	err error
}

func (s stubValidator) ValidateToken(string) (primitive.ObjectID, error) {
	return s.id, s.err
}

func newEngine(v middleware.TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", middleware.RequireAuth(v), func(c *gin.Context) {
		id, ok := middleware.AdminID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no admin id"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin": id.Hex()})
	})
	return r
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r := newEngine(stubValidator{id: primitive.NewObjectID()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	r := newEngine(stubValidator{id: primitive.NewObjectID()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	r := newEngine(stubValidator{err: errors.New("expired")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ValidTokenSetsAdminID(t *testing.T) {
	id := primitive.NewObjectID()
	r := newEngine(stubValidator{id: id})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.Hex())
}
