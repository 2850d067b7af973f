package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/contaula/contaula/internal/apperrors"
	"github.com/contaula/contaula/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondServiceError maps service errors to HTTP status codes. Validation
// failures echo the error text; internal failures never leak details.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrAlreadyConfirmed),
		errors.Is(err, apperrors.ErrNotConfirmed),
		errors.Is(err, apperrors.ErrAccountHasPostings),
		errors.Is(err, apperrors.ErrPeriodAlreadyClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidLine),
		errors.Is(err, apperrors.ErrUnbalanced),
		errors.Is(err, apperrors.ErrPeriodClosed),
		errors.Is(err, apperrors.ErrBankingThreshold),
		errors.Is(err, apperrors.ErrInvalidHierarchy),
		errors.Is(err, apperrors.ErrCycleDetected),
		errors.Is(err, apperrors.ErrInconsistentNature),
		errors.Is(err, apperrors.ErrAggregatorCannotBeLeaf),
		errors.Is(err, apperrors.ErrUnbalancedClosingEntry):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
