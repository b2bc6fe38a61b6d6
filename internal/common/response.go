package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// SuccessResponse wraps a typed payload
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendSuccess sends a success envelope with the given status
func SendSuccess(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, SuccessResponse{Success: true, Data: data})
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(string(KindValidation), "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendError maps a core error onto the HTTP envelope. Internal details never leave the process.
func SendError(c echo.Context, err error) error {
	kind := KindOf(err)
	switch kind {
	case KindInvalidTransition:
		var transition *InvalidTransitionError
		errors.As(err, &transition)
		return c.JSON(http.StatusConflict, CreateErrorResponse(string(kind), transition.Error(), map[string]string{
			"from": transition.From,
			"to":   transition.To,
		}))
	case KindOverpayment:
		var overpayment *OverpaymentError
		errors.As(err, &overpayment)
		return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse(string(kind), overpayment.Error(), map[string]string{
			"max_allowed": overpayment.MaxAllowed.String(),
		}))
	case KindValidation, KindNotFound, KindConflictOnDelete:
		var appErr *AppError
		errors.As(err, &appErr)
		return c.JSON(statusForKind(kind), CreateErrorResponse(string(kind), appErr.Message, appErr.Details))
	default:
		return SendServerError(c, "operation could not be completed")
	}
}

func statusForKind(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflictOnDelete:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
