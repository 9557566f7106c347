package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
)

// respondError maps a service error to an HTTP status via the apperr
// sentinels and writes a uniform error body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrInvalidParameter):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrUpstream):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

// respondOK wraps a payload in the standard success envelope.
func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": payload})
}
