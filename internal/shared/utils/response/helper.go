package response

import "github.com/gin-gonic/gin"

// Success writes a successful envelope with the given payload.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, StandardApiResponse{
		Success:    true,
		StatusCode: code,
		Message:    message,
		Data:       data,
	})
}

// Error writes a failed envelope with optional error details.
func Error(c *gin.Context, code int, message string, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Success:    false,
		StatusCode: code,
		Message:    message,
		Errors:     errors,
	})
}
