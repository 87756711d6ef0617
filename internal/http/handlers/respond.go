package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the top-level error body. The request id travels only in the
// X-Request-Id header so two failures with the same cause produce identical
// bodies (enumeration resistance depends on that).
type APIError struct {
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func RespondError(ctx *gin.Context, status int, code, message string) {
	ctx.JSON(status, APIError{
		Message: message,
		Code:    code,
	})
}

func RespondValidation(ctx *gin.Context, fields interface{}) {
	ctx.JSON(http.StatusBadRequest, APIError{
		Message: "Validation failed",
		Errors:  fields,
	})
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "", message)
}

func RespondUnauthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message)
}

// RespondInternal deliberately leaks nothing about the underlying failure.
func RespondInternal(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, "", "Server error")
}
