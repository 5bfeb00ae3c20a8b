package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/foodcourt-app/utils"
)

// query parameters that carry credentials
var redactedParams = []string{"token"}

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := redactQuery(c)

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		entry := utils.InfoLogger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString("request_id"),
		})
		if userID, ok := c.Get(ContextUserID); ok {
			entry = entry.WithField("user_id", userID)
		}
		entry.Info(path)
	}
}

func redactQuery(c *gin.Context) string {
	if c.Request.URL.RawQuery == "" {
		return ""
	}
	q := c.Request.URL.Query()
	for _, name := range redactedParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
		}
	}
	return q.Encode()
}
