package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Status is the in-body status block. Code mirrors the outcome and may differ
// from the HTTP status line.
type Status struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

type APIResponse[T any] struct {
	Data   T      `json:"data"`
	Status Status `json:"status"`
}

// Empty serializes as {}.
type Empty struct{}

// Write sends data wrapped in the envelope.
func Write[T any](ctx *gin.Context, httpStatus, code int, message string, data T) APIResponse[T] {
	if httpStatus == 0 {
		httpStatus = http.StatusOK
	}
	resp := APIResponse[T]{
		Data:   data,
		Status: Status{Code: code, Message: message},
	}
	ctx.JSON(httpStatus, resp)
	return resp
}

func Success[T any](ctx *gin.Context, httpStatus, code int, data T, message string) APIResponse[T] {
	return Write(ctx, httpStatus, code, message, data)
}

// Error writes an empty data object; details end up in status.errors.
func Error(ctx *gin.Context, status int, message string, details interface{}) APIResponse[Empty] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[Empty]{
		Data:   Empty{},
		Status: Status{Code: status, Message: message, Errors: details},
	}
	ctx.JSON(status, resp)
	return resp
}

// Abort is Error plus stopping the handler chain, for middleware.
func Abort(ctx *gin.Context, status int, message string, details interface{}) {
	Error(ctx, status, message, details)
	ctx.Abort()
}
