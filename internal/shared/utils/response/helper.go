package response

import (
	"net/http"

	"evently/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a service error to its HTTP status and writes the
// standard error envelope. Unclassified errors become 500s with a generic
// message so internals never leak to clients.
func RespondError(c *gin.Context, err error) {
	code := apperrors.StatusCode(err)
	if code == http.StatusInternalServerError {
		RespondJSON(c, "error", code, "Internal server error", nil, nil)
		return
	}
	RespondJSON(c, "error", code, apperrors.Detail(err), nil, gin.H{"detail": apperrors.Detail(err)})
}
