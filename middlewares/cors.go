package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	corsAllowedHeaders = strings.Join([]string{"Authorization", "Content-Type", "Accept", "X-Request-ID"}, ", ")
	corsAllowedMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
)

// CORSMiddlewares lets the kitchen and table frontends served from
// allowedOrigin call the API. Preflight requests stop here.
func CORSMiddlewares(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowedOrigin)
		h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")
		h.Set("Access-Control-Max-Age", "600")
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
