package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Stable error codes for programmatic branching.
const (
	CodeInvalidPaymentMode = "INVALID_PAYMENT_MODE"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeProcessorNotFound  = "PROCESSOR_NOT_FOUND"
	CodeProcessingFailed   = "PROCESSING_FAILED"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error represents a checkout error
type Error struct {
	Code      string `json:"code"`
	Status    int    `json:"-"`
	Message   string `json:"message"`
	Processor string `json:"processor,omitempty"`
	Err       error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error carrying the same code, so the
// sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code string, status int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// Sentinels, for errors.Is comparisons only. Never return them directly.
var (
	ErrInvalidPaymentMode = New(CodeInvalidPaymentMode, http.StatusBadRequest, "Invalid payment mode", nil)
	ErrInvalidAmount      = New(CodeInvalidAmount, http.StatusBadRequest, "Invalid payment amount", nil)
	ErrProcessorNotFound  = New(CodeProcessorNotFound, http.StatusNotFound, "Processor not found", nil)
	ErrProcessingFailed   = New(CodeProcessingFailed, http.StatusBadGateway, "Payment processing failed", nil)
)

// InvalidPaymentMode is returned when a mode is not one of validModes.
func InvalidPaymentMode(mode string, validModes []string) *Error {
	msg := fmt.Sprintf("Invalid payment mode: %s", mode)
	if len(validModes) > 0 {
		msg += ". Valid modes are: " + strings.Join(validModes, ", ")
	}
	return New(CodeInvalidPaymentMode, http.StatusBadRequest, msg, nil)
}

// InvalidAmount is returned when raw cannot be turned into a payable amount.
func InvalidAmount(raw any, reason string) *Error {
	return New(CodeInvalidAmount, http.StatusBadRequest,
		fmt.Sprintf("Invalid payment amount %v: %s", raw, reason), nil)
}

// ProcessorNotFound is returned when the registry has no entry for mode.
func ProcessorNotFound(mode string) *Error {
	return New(CodeProcessorNotFound, http.StatusNotFound,
		fmt.Sprintf("No processor found for payment mode: %s", mode), nil)
}

// PaymentProcessingFailed wraps an unexpected failure inside a processor.
func PaymentProcessingFailed(processor string, cause error) *Error {
	e := New(CodeProcessingFailed, http.StatusBadGateway,
		fmt.Sprintf("%s payment failed", processor), cause)
	e.Processor = processor
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) string {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// From converts any error into an *Error, treating unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return New(CodeInternal, http.StatusInternalServerError, "Internal server error", err)
}

// HandleError writes err as a JSON response
func HandleError(w http.ResponseWriter, err error) {
	appErr := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	w.Write([]byte(appErr.JSON()))
}

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := From(c.Errors.Last().Err)
		c.AbortWithStatusJSON(appErr.Status, appErr)
	}
}
