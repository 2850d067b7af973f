package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/contaula/contaula/internal/core/ports/services"
	"github.com/contaula/contaula/internal/dto"
	"github.com/contaula/contaula/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entryHandler handles HTTP requests for journal entries.
type entryHandler struct {
	entryService portssvc.EntrySvcFacade
}

func newEntryHandler(entryService portssvc.EntrySvcFacade) *entryHandler {
	return &entryHandler{entryService: entryService}
}

// registerEntryRoutes registers journal entry routes
func registerEntryRoutes(group *gin.RouterGroup, entryService portssvc.EntrySvcFacade) {
	h := newEntryHandler(entryService)

	entries := group.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PATCH("/:entryID", h.updateDraft)
		entries.POST("/:entryID/confirm", h.confirmEntry)
		entries.POST("/:entryID/void", h.voidEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Creates a new journal entry. With confirm=true the entry is validated, numbered and posted in one step; otherwise it is stored as an editable draft.
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateEntryRequest true "Entry with its lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse "Unbalanced, bad lines, closed period or banking threshold"
// @Failure 401 {object} ErrorResponse
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("status", string(entry.Status)),
		slog.Int64("sequence_number", entry.SequenceNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first with token-based pagination. Reversal entries are hidden unless includeReversals is set.
// @Tags entries
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Param includeReversals query bool false "Include reversal entries" default(false)
// @Param status query string false "Filter by status (DRAFT, CONFIRMED, VOIDED)"
// @Success 200 {object} dto.ListEntriesResponse
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	page, err := h.entryService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its lines.
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} ErrorResponse
// @Router /entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	entry, err := h.entryService.GetEntryByID(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// updateDraft godoc
// @Summary Update a draft entry
// @Description Replaces the editable fields of a draft. Confirmed entries cannot be edited.
// @Tags entries
// @Accept json
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 409 {object} ErrorResponse "Entry already confirmed"
// @Router /entries/{entryID} [patch]
func (h *entryHandler) updateDraft(c *gin.Context) {
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.entryService.UpdateDraft(c.Request.Context(), c.Param("entryID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// confirmEntry godoc
// @Summary Confirm a draft entry
// @Description Validates a draft and posts it, assigning its gapless sequence number.
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Entry already confirmed"
// @Router /entries/{entryID}/confirm [post]
func (h *entryHandler) confirmEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.entryService.ConfirmEntry(c.Request.Context(), c.Param("entryID"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Entry confirmed",
		slog.String("entry_id", entry.EntryID),
		slog.Int64("sequence_number", entry.SequenceNumber))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// voidEntry godoc
// @Summary Void a confirmed entry
// @Description Voids a confirmed entry by creating a linked reversal entry with debits and credits swapped, dated today. Returns the reversal.
// @Tags entries
// @Accept json
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param void body dto.VoidEntryRequest true "Reason for voiding"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse "Current period closed"
// @Failure 409 {object} ErrorResponse "Entry not confirmed"
// @Router /entries/{entryID}/void [post]
func (h *entryHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reversal, err := h.entryService.VoidEntry(c.Request.Context(), c.Param("entryID"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Entry voided",
		slog.String("entry_id", c.Param("entryID")),
		slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(reversal))
}
