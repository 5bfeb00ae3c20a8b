package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcourt-app/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

// AuthMiddleware accepts "Authorization: Bearer <token>" or, for websocket
// upgrades that cannot set headers, a token query parameter.
func AuthMiddleware(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		claims, err := tm.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextToken, tokenString)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", errors.New("authorization header missing")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", errors.New("authorization header missing")
	}
	return token, nil
}
