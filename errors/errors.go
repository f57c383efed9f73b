package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with an HTTP status attached.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause. The sentinel itself
// stays untouched so errors.Is against it keeps working.
func Wrap(base *Error, err error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Err:     err,
	}
}

// Cart and order error types. All of these are recoverable and surfaced to
// the caller as-is; none terminate the process.
var (
	ErrInvalidQuantity   = New(http.StatusBadRequest, "Quantity must be at least 1", nil)
	ErrInsufficientStock = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrCartEmpty         = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrProductNotFound   = New(http.StatusNotFound, "Product not found", nil)
	ErrOrderNotFound     = New(http.StatusNotFound, "Order not found", nil)
	ErrIllegalTransition = New(http.StatusConflict, "Illegal order status transition", nil)
	ErrTrackingRequired  = New(http.StatusBadRequest, "Tracking number and delivery estimate are required", nil)
	ErrUnauthenticated   = New(http.StatusUnauthorized, "Unauthorized", nil)
)

// Generic error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Is lets errors.Is match a wrapped copy against its sentinel by code and
// message rather than pointer identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// ErrorMiddleware renders errors attached to the gin context in the same
// shape the controllers use.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if e, ok := err.(*Error); ok {
				appErr = e
			} else {
				appErr = Wrap(ErrInternalServer, err)
			}

			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			c.Abort()
		}
	}
}
