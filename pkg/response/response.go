package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/campushq/idcard-api/pkg/errors"
)

// ErrorBody wraps a typed error for the wire. Success payloads are sent
// as-is so each endpoint controls its own top-level keys.
type ErrorBody struct {
	Error *appErrors.Error `json:"error"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
