package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const genericFailure = "Something went wrong. Please try again."

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Message answers a mutating call that has no entity worth returning.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}

func ValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"code":    "VALIDATION_ERROR",
		"message": "The given data was invalid.",
		"errors":  fields,
	})
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "FORBIDDEN", "This action is unauthorized.")
}

// Internal logs err with the request logger and answers with a generic 500.
func Internal(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("path", c.FullPath()).
		Msg("request failed")
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", genericFailure)
}
