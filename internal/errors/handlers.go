package errors

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler formats errors for terminal display
type CLIErrorHandler struct {
	Verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{Verbose: verbose}
}

// HandleError logs the error when verbose and returns a display-ready error
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	if h.Verbose {
		log.Printf("[%s] %s: %s", appErr.Severity, appErr.Code, appErr.Error())
		if appErr.Cause != nil {
			log.Printf("Caused by: %v", appErr.Cause)
		}
	}
	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError renders an error as a terminal message
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)
	switch appErr.Category {
	case CategoryValidation:
		return fmt.Sprintf("Invalid input: %s", appErr.Error())
	case CategoryResource:
		return fmt.Sprintf("Not found: %s", appErr.Details)
	case CategoryNetwork:
		return fmt.Sprintf("Network error: %s", appErr.Message)
	case CategoryStorage:
		return fmt.Sprintf("Storage error: %s", appErr.Message)
	default:
		return appErr.Error()
	}
}

// httpErrorResponse is the JSON body written for failed API requests
type httpErrorResponse struct {
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code"`
	Details string    `json:"details,omitempty"`
}

// WriteHTTPError maps an error to an HTTP status code and writes a JSON
// error body
func WriteHTTPError(w http.ResponseWriter, err error) {
	appErr := GetAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode(appErr.Code))
	json.NewEncoder(w).Encode(httpErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func httpStatusCode(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeNetworkFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
