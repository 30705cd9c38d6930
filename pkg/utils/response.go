package utils

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse sends the standard success JSON envelope
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	body := gin.H{
		"status":  true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(statusCode, body)
}

// ErrorResponse sends the standard error JSON envelope
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"status": false,
		"error":  message,
	})
}
