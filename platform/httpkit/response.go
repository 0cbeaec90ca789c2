// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"sms_relay_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// statusCoder is implemented by errors that know their HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// StatusFor returns the HTTP status an error maps to. Errors that do not
// carry a status default to 400 Bad Request.
func StatusFor(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return http.StatusBadRequest
}

// HandleError maps domain errors to JSON HTTP responses.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Error(),
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(StatusFor(err), ErrorResponse{Error: err.Error()})
	return true
}

// HandleErrorText maps errors to plain-text responses whose body is the
// error message. Messaging providers show this body to the operator.
func HandleErrorText(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	_ = c.Error(err)
	c.String(StatusFor(err), err.Error())
	return true
}
