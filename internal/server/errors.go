package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crimson-sun/sentiment/internal/engine"
	"github.com/crimson-sun/sentiment/internal/table"
)

// Error codes returned in ErrorInfo.Code.
const (
	CodeEmptyInput      = "EMPTY_INPUT"
	CodeMissingColumn   = "MISSING_COLUMN"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeNotReady        = "NOT_READY"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse is an error mapped to its HTTP form.
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapError maps pipeline errors to HTTP error responses.
func MapError(err error) ErrorResponse {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, engine.ErrEmptyInput):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeEmptyInput,
			Message:    "please enter some text",
		}
	case errors.Is(err, table.ErrMissingColumn):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeMissingColumn,
			Message:    err.Error(),
		}
	case errors.As(err, &tooLarge):
		return ErrorResponse{
			StatusCode: http.StatusRequestEntityTooLarge,
			Code:       CodePayloadTooLarge,
			Message:    "upload exceeds size limit",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternal,
			Message:    "internal server error",
		}
	}
}

func handleError(c *gin.Context, err error) {
	resp := MapError(err)
	respondError(c, resp.StatusCode, resp.Code, resp.Message)
}

func handleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeInvalidRequest, message)
}
