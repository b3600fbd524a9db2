package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminIDKey is the context key the auth middleware stores the caller's
// admin id under.
const AdminIDKey = "adminID"

// TokenValidator verifies a bearer token and resolves the admin it names.
type TokenValidator interface {
	ValidateToken(token string) (primitive.ObjectID, error)
}

// RequireAuth rejects requests without a valid Bearer token.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization header must be Bearer <token>"})
			return
		}

		adminID, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(AdminIDKey, adminID)
		c.Next()
	}
}

// AdminID extracts the authenticated admin id set by RequireAuth.
func AdminID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(AdminIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}
