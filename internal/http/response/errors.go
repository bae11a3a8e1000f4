package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/novahq/taskhub-backend/internal/domain/aggregates"
)

// statusOf maps aggregate error codes onto HTTP statuses. Anything without a
// recognizable code is treated as internal.
func statusOf(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodePermissionDenied:
		return http.StatusForbidden
	case domainagg.CodeConflict, domainagg.CodeInvariantViolation, domainagg.CodePreconditionFailed:
		return http.StatusConflict
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError translates a service-layer error into the envelope.
func RespondDomainError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	RespondError(c, statusOf(code), string(code), err)
}
