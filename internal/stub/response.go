package stub

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Error writes the storefront API's failure shape.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// mapErrorToStatus maps store errors onto HTTP status codes by message.
func mapErrorToStatus(err error) int {
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "not found") || strings.Contains(errMsg, "no longer exists") {
		return http.StatusNotFound
	}
	if strings.Contains(errMsg, "already exists") {
		return http.StatusConflict
	}
	if strings.Contains(errMsg, "invalid email or password") || strings.Contains(errMsg, "invalid current password") {
		return http.StatusUnauthorized
	}
	if strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "cannot be empty") ||
		strings.Contains(errMsg, "must be positive") || strings.Contains(errMsg, "insufficient stock") ||
		strings.Contains(errMsg, "does not exist") || strings.Contains(errMsg, "cart is empty") ||
		strings.Contains(errMsg, "cannot cancel") || strings.Contains(errMsg, "cannot change") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
