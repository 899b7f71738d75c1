package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
)

// Response is the uniform envelope every endpoint answers with.
type Response struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:     "success",
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:     "error",
		StatusCode: statusCode,
		Message:    message,
	})
}

// mapErrorToStatus translates domain sentinels to HTTP statuses. Conflict
// is kept distinct from NotFound so clients can tell "never existed" from
// "already finished".
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrOrderAlreadyFinal):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrInvalidSize),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrOrderNotPlaced),
		errors.Is(err, domain.ErrPaymentNotInitiated),
		errors.Is(err, domain.ErrPaymentRefMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError hides internals on unexpected failures; expected
// domain errors are surfaced verbatim.
func respondWithError(c *gin.Context, err error) {
	statusCode := mapErrorToStatus(err)
	if statusCode == http.StatusInternalServerError {
		ErrorResponse(c, statusCode, "Internal server error")
		return
	}
	ErrorResponse(c, statusCode, err.Error())
}
