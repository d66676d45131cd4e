package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/biolink/internal/logging"
	"github.com/biolink/internal/service"
	"github.com/gin-gonic/gin"
)

const ownerIDContextKey = "__owner_id"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// handleServiceError maps service errors onto HTTP responses. Only validation
// errors expose their message; storage failures are logged and answered generically.
func (a *API) handleServiceError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrConflict):
		respondError(c, http.StatusForbidden, "an account already exists, registration is closed")
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, notFoundMessage)
	default:
		a.log.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			logging.Err(err),
		)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func currentOwnerID(c *gin.Context) uint {
	return c.GetUint(ownerIDContextKey)
}
