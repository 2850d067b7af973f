package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/dto"
	"github.com/contaula/contaula/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests for accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodService
}

func newPeriodHandler(periodService portssvc.PeriodService) *periodHandler {
	return &periodHandler{periodService: periodService}
}

// registerPeriodRoutes registers accounting period routes
func registerPeriodRoutes(group *gin.RouterGroup, periodService portssvc.PeriodService) {
	h := newPeriodHandler(periodService)

	periods := group.Group("/periods")
	{
		periods.GET("", h.listPeriods)
		periods.GET("/:year/:month", h.getPeriod)
		periods.POST("/close", h.closePeriod)
	}
}

// closePeriod godoc
// @Summary Close an accounting period
// @Description Generates the closing entry that zeroes the month's result accounts into the configured equity account, posts it dated on the month's last day, and marks the period closed, atomically.
// @Tags periods
// @Accept json
// @Produce json
// @Param period body dto.ClosePeriodRequest true "Year and month to close"
// @Success 200 {object} dto.ClosePeriodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Period already closed"
// @Router /periods/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	period, entry, err := h.periodService.ClosePeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.ClosePeriodResponse{Period: dto.ToPeriodResponse(period)}
	if entry != nil {
		entryResp := dto.ToEntryResponse(entry)
		resp.ClosingEntry = &entryResp
	}

	logger.Info("Period closed", slog.Int("year", req.Year), slog.Int("month", req.Month))
	c.JSON(http.StatusOK, resp)
}

// getPeriod godoc
// @Summary Get a period's status
// @Description Retrieves the status of one calendar month. Months never closed are reported open.
// @Tags periods
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} ErrorResponse
// @Router /periods/{year}/{month} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid month"})
		return
	}

	period, err := h.periodService.GetPeriod(c.Request.Context(), year, month)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Description Lists all recorded periods, newest first.
// @Tags periods
// @Produce json
// @Success 200 {object} dto.ListPeriodsResponse
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}
