// Package response writes the JSON envelopes of the public API. Lifecycle
// and history endpoints report under a "message" key; the creation endpoint
// reports failures under "error". Both shapes are part of the wire contract.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message sends {"message": msg} with the given status.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// Error sends {"error": msg} with the given status.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// MessageData sends a 200 with {"message": msg, "data": data}.
func MessageData(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"message": msg, "data": data})
}
