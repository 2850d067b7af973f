package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for financial reports.
type reportingHandler struct {
	ledgerService    portssvc.LedgerService
	statementService portssvc.StatementService
}

func newReportingHandler(ledgerService portssvc.LedgerService, statementService portssvc.StatementService) *reportingHandler {
	return &reportingHandler{
		ledgerService:    ledgerService,
		statementService: statementService,
	}
}

// registerReportingRoutes registers the financial report routes
func registerReportingRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerService, statementService portssvc.StatementService) {
	h := newReportingHandler(ledgerService, statementService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// getTrialBalance godoc
// @Summary Trial balance
// @Description Lists every account with confirmed activity up to a date, with its balance on the debit or credit column. Column totals always match.
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	tb, err := h.ledgerService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb, asOf))
}

// getIncomeStatement godoc
// @Summary Income statement
// @Description Reports revenue, cost of sales and expenses over a date range, with gross profit and net income.
// @Tags reports
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} ErrorResponse
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid from/to parameters, expected YYYY-MM-DD"})
		return
	}
	from, _ := time.Parse("2006-01-02", params.From)
	to, _ := time.Parse("2006-01-02", params.To)

	report, err := h.statementService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report, from, to))
}

// getBalanceSheet godoc
// @Summary Balance sheet
// @Description Reports asset, liability and equity balances as of a date. Unclosed result activity appears as currentResult so the statement balances.
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} ErrorResponse
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.statementService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOf))
}
