// Package response renders the JSON envelope all API endpoints share.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shivarya/splitcash/internal/apperr"
	"github.com/shivarya/splitcash/internal/auth"
)

// Envelope is the wire format for every API response. Success responses
// carry Data and an optional Message; failures carry Error.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage writes a 200 success envelope with a human-readable message.
func OKMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with the given HTTP status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// FromError maps a service error onto an HTTP status and writes the
// failure envelope.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidGoogleToken):
		Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrEmailExists):
		Fail(c, http.StatusBadRequest, err.Error())
	default:
		Fail(c, statusForKind(apperr.KindOf(err)), err.Error())
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
