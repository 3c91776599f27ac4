package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"regpay/pkg/utils"
)

// OptionalJWTMiddleware attributes a user id to the request when a valid
// bearer token is present and carries on anonymously otherwise. The
// verify endpoint uses this: the token only decides who gets credited as
// creator of a new payment record, never whether the call is allowed.
func OptionalJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil || claims == nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("Role", claims.Role)
		c.Next()
	}
}
