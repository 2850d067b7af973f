package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/dto"
	"github.com/contaula/contaula/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	chartService  portssvc.ChartSvcFacade
	ledgerService portssvc.LedgerService
}

func newAccountHandler(chartService portssvc.ChartSvcFacade, ledgerService portssvc.LedgerService) *accountHandler {
	return &accountHandler{
		chartService:  chartService,
		ledgerService: ledgerService,
	}
}

// registerAccountRoutes registers chart-of-accounts routes
func registerAccountRoutes(group *gin.RouterGroup, chartService portssvc.ChartSvcFacade, ledgerService portssvc.LedgerService) {
	h := newAccountHandler(chartService, ledgerService)

	accounts := group.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deactivateAccount)
		accounts.GET("/:accountID/subtree", h.getSubtree)
		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.GET("/:accountID/ledger", h.getLedger)
	}
}

// createAccount godoc
// @Summary Create an account
// @Description Creates a new account in the chart of accounts. The code must extend the parent's code and the kind must match the parent's kind.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account definition"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate code"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.chartService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts ordered by code, optionally filtered by a code prefix.
// @Tags accounts
// @Produce json
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Offset" default(0)
// @Param prefix query string false "Code prefix filter"
// @Success 200 {object} dto.ListAccountsResponse
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.chartService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates an account. Code, kind, parent and leaf flag are structural and rejected once the account has postings.
// @Tags accounts
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Account has postings"
// @Router /accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.chartService.UpdateAccount(c.Request.Context(), c.Param("accountID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account inactive so it no longer accepts postings. Nothing is deleted.
// @Tags accounts
// @Param accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.chartService.DeactivateAccount(c.Request.Context(), c.Param("accountID"), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getSubtree godoc
// @Summary Get an account subtree
// @Description Retrieves an account and all of its descendants, ordered by code.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountID}/subtree [get]
func (h *accountHandler) getSubtree(c *gin.Context) {
	accounts, err := h.chartService.GetSubtree(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// parseAsOf reads the optional asOf query parameter, defaulting to today.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid asOf parameter, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	if params.AsOf == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	asOf, _ := time.Parse("2006-01-02", params.AsOf)
	return asOf, true
}

// getBalance godoc
// @Summary Get an account balance
// @Description Computes the opening balance, turnover and closing balance of an account over a date range. Aggregator balances roll up the whole subtree.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param from query string false "Range start (YYYY-MM-DD); omitted means from the first posting"
// @Param asOf query string false "Balance date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	var params dto.BalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid from/asOf parameters, expected YYYY-MM-DD"})
		return
	}

	var from time.Time
	if params.From != "" {
		from, _ = time.Parse("2006-01-02", params.From)
	}
	now := time.Now().UTC()
	asOf := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if params.AsOf != "" {
		asOf, _ = time.Parse("2006-01-02", params.AsOf)
	}

	balance, err := h.ledgerService.AccountBalance(c.Request.Context(), c.Param("accountID"), from, asOf)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.AccountBalanceResponse{
		AccountID:     balance.AccountID,
		Code:          balance.Code,
		Name:          balance.Name,
		NormalBalance: string(balance.NormalBalance),
		AsOf:          asOf.Format("2006-01-02"),
		Opening:       balance.Opening,
		Debit:         balance.Debit,
		Credit:        balance.Credit,
		Balance:       balance.Closing,
	}
	if !from.IsZero() {
		resp.From = from.Format("2006-01-02")
	}
	c.JSON(http.StatusOK, resp)
}

// getLedger godoc
// @Summary Get an account ledger
// @Description Lists the postings of a leaf account over a date range with opening balance and running balance per row.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountID}/ledger [get]
func (h *accountHandler) getLedger(c *gin.Context) {
	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid from/to parameters, expected YYYY-MM-DD"})
		return
	}
	from, _ := time.Parse("2006-01-02", params.From)
	to, _ := time.Parse("2006-01-02", params.To)

	ledger, err := h.ledgerService.AccountLedger(c.Request.Context(), c.Param("accountID"), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}
