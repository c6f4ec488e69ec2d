package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError writes err with the status the core error maps to.
// Server-side failures are logged in full and answered with a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
		return
	}
	logger.Warn("Rejected request to "+action, slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseIDParam reads a positive integer path parameter, answering 400 when it is malformed.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ": " + c.Param(name)})
		return 0, false
	}
	return id, true
}
