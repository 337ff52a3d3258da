package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The dashboard speaks the flat {"error": ...} / {"success": ...} shapes, so
// errors go out as a bare message rather than a nested envelope.
func RespondError(c *gin.Context, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
