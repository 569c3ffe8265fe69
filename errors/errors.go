package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
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

// Is reports whether target is an *Error with the same code and message, so
// a wrapped sentinel still matches errors.Is(err, ErrX).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying cause. The sentinel itself is never mutated.
func Wrap(base *Error, cause error) *Error {
	return New(base.Code, base.Message, cause)
}

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden          = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrTooManyRequests    = New(http.StatusTooManyRequests, "Rate limit exceeded", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Cart error types
var (
	ErrInvalidQuantity = New(http.StatusBadRequest, "Quantity must be at least 1", nil)
	ErrProductNotFound = New(http.StatusNotFound, "Product not found", nil)
	ErrInvalidPrice    = New(http.StatusBadGateway, "Product has an invalid price", nil)
	ErrStorage         = New(http.StatusInternalServerError, "Could not save cart", nil)
)

// Coupon error types
var (
	ErrEmptyCouponCode  = New(http.StatusBadRequest, "Coupon code is required", nil)
	ErrCouponNotFound   = New(http.StatusNotFound, "Coupon invalid or not found", nil)
	ErrCouponInactive   = New(http.StatusUnprocessableEntity, "Coupon inactive", nil)
	ErrCouponSuperseded = New(http.StatusConflict, "Coupon state changed during lookup", nil)
)

// Checkout error types
var (
	ErrEmptyCart          = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrCheckoutInProgress = New(http.StatusConflict, "Checkout already in progress", nil)
	ErrOrderRejected      = New(http.StatusBadGateway, "Could not complete order", nil)
	ErrConnection         = New(http.StatusBadGateway, "Connection error", nil)
)

// From converts any error into an *Error, defaulting to an internal error
// that carries err as its cause.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternalServer, err)
}

// Respond writes err as a JSON error body with the matching status code.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message, "code": appErr.Code})
}

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			Respond(c, c.Errors.Last().Err)
			c.Abort()
		}
	}
}
