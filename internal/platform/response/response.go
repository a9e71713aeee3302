package response

import (
	"errors"
	"net/http"

	"github.com/airlock-stays/service-booking/internal/platform/domain"
	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, "FORBIDDEN", message)
}

// Error maps a domain error onto its HTTP status. Unknown errors become a
// 500 without leaking the underlying message.
func Error(c *gin.Context, err error) {
	var (
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		validation *domain.ValidationError
		invalid    *domain.InvalidStateError
		forbidden  *domain.ForbiddenError
	)

	switch {
	case errors.As(err, &notFound):
		abort(c, http.StatusNotFound, "NOT_FOUND", notFound.Error())
	case errors.As(err, &conflict):
		abort(c, http.StatusConflict, "CONFLICT", conflict.Error())
	case errors.As(err, &validation):
		abort(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.Error())
	case errors.As(err, &invalid):
		abort(c, http.StatusUnprocessableEntity, "INVALID_STATE", invalid.Error())
	case errors.As(err, &forbidden):
		abort(c, http.StatusForbidden, "FORBIDDEN", forbidden.Error())
	default:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}
