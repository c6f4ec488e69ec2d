package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler handles HTTP requests that post or reverse journals.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
	journalService portssvc.JournalReaderSvc
}

// newPostingHandler creates a new postingHandler.
func newPostingHandler(ps portssvc.PostingSvcFacade, js portssvc.JournalReaderSvc) *postingHandler {
	return &postingHandler{
		postingService: ps,
		journalService: js,
	}
}

// registerPostingRoutes registers posting, reversal and journal lookup routes.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade, journalService portssvc.JournalReaderSvc) {
	h := newPostingHandler(postingService, journalService)

	postings := rg.Group("/postings")
	{
		postings.POST("", h.post)
		postings.POST("/reverse", h.reverse)
	}
	rg.GET("/journals/:type/:referenceId", h.getJournal)
}

// post creates or re-posts the journal of a business event.
// Answers 201 with the journal, or 200 with posted=false when the amount was zero.
func (h *postingHandler) post(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.PostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Post", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	postingReq, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.ActorOrSystem(c)
	logger = logger.With(
		slog.String("actor_user_id", actor),
		slog.String("reference_type", req.ReferenceType.String()),
		slog.Int64("reference_id", req.ReferenceID),
	)
	logger.Info("Received request to post journal")

	journal, err := h.postingService.Post(c.Request.Context(), postingReq, actor)
	if err != nil {
		respondError(c, logger, err, "post journal")
		return
	}
	if journal == nil {
		c.JSON(http.StatusOK, dto.ToJournalResponse(nil))
		return
	}
	logger.Info("Journal posted", slog.String("journal_id", journal.ID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// reverse posts the mirror of an earlier posting.
func (h *postingHandler) reverse(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reverse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.ActorOrSystem(c)
	logger = logger.With(
		slog.String("actor_user_id", actor),
		slog.String("reference_type", req.ReferenceType.String()),
		slog.Int64("reference_id", req.ReferenceID),
	)

	var (
		journal *domain.Journal
		err     error
	)
	if req.ReversalType != nil {
		journal, err = h.postingService.ReverseAs(c.Request.Context(), req.ReferenceType, req.ReferenceID, *req.ReversalType, actor)
	} else {
		journal, err = h.postingService.Reverse(c.Request.Context(), req.ReferenceType, req.ReferenceID, actor)
	}
	if err != nil {
		respondError(c, logger, err, "reverse journal")
		return
	}
	if journal == nil {
		c.JSON(http.StatusOK, dto.ToJournalResponse(nil))
		return
	}
	logger.Info("Journal reversed", slog.String("journal_id", journal.ID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal returns the journal of a business event. The type is a name (INVOICE) or its number.
func (h *postingHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	refType, err := domain.ParsePostingReferenceType(c.Param("type"))
	if err != nil {
		n, convErr := strconv.Atoi(c.Param("type"))
		if convErr != nil || !domain.PostingReferenceType(n).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		refType = domain.PostingReferenceType(n)
	}
	referenceID, ok := parseIDParam(c, "referenceId")
	if !ok {
		return
	}

	journal, err := h.journalService.GetJournal(c.Request.Context(), refType, referenceID)
	if err != nil {
		respondError(c, logger, err, "retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}
