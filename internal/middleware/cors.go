package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS sets the open CORS headers every response carries and answers
// preflight OPTIONS requests with 200 (not 204; existing clients check for
// an OK status on preflight).
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Headers", "Content-Type,Authorization")
			c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
