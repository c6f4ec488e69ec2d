package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles ledger report requests.
type reportingHandler struct {
	journalService        portssvc.JournalReaderSvc
	closingBalanceService portssvc.ClosingBalanceReaderSvc
	reportingService      portssvc.ReportingSvc
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(js portssvc.JournalReaderSvc, cbs portssvc.ClosingBalanceReaderSvc, rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		journalService:        js,
		closingBalanceService: cbs,
		reportingService:      rs,
	}
}

// registerReportingRoutes registers report and reconciliation routes.
func registerReportingRoutes(rg *gin.RouterGroup, js portssvc.JournalReaderSvc, cbs portssvc.ClosingBalanceReaderSvc, rs portssvc.ReportingSvc) {
	h := newReportingHandler(js, cbs, rs)

	reports := rg.Group("/reports")
	{
		reports.GET("/line-items", h.listLineItems)
		reports.GET("/closing-balances", h.listClosingBalances)
		reports.GET("/closing-balance-snapshots", h.listSnapshots)
		reports.GET("/general-ledger", h.getGeneralLedger)
		reports.GET("/trial-balance", h.getTrialBalance)
	}
	rg.GET("/reconcile/closing-balance", h.getReconcileBalance)
}

// bindReport parses the shared report query, answering 400 on failure.
func bindReport(c *gin.Context, logger *slog.Logger) (domain.ReportRequest, bool) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return domain.ReportRequest{}, false
	}
	req, err := query.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.ReportRequest{}, false
	}
	return req, true
}

func (h *reportingHandler) listLineItems(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	req, ok := bindReport(c, logger)
	if !ok {
		return
	}
	items, err := h.journalService.ListLineItems(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "list line items")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *reportingHandler) listClosingBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	req, ok := bindReport(c, logger)
	if !ok {
		return
	}
	balances, err := h.closingBalanceService.GetList(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "compute closing balances")
		return
	}
	c.JSON(http.StatusOK, balances)
}

func (h *reportingHandler) listSnapshots(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	req, ok := bindReport(c, logger)
	if !ok {
		return
	}
	snapshots, err := h.closingBalanceService.ListSnapshots(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "list closing balance snapshots")
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	req, ok := bindReport(c, logger)
	if !ok {
		return
	}
	accounts, err := h.reportingService.GeneralLedger(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "build general ledger")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	req, ok := bindReport(c, logger)
	if !ok {
		return
	}
	rows, err := h.reportingService.TrialBalance(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "build trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(req, rows))
}

// getReconcileBalance returns the bank-currency balance a reconciliation starts from.
func (h *reportingHandler) getReconcileBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var query dto.ReconcileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind reconcile query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	date, err := time.Parse(time.DateOnly, query.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: " + query.Date})
		return
	}
	balance, err := h.closingBalanceService.MatchClosingBalanceForReconcile(c.Request.Context(), date, query.CategoryID)
	if err != nil {
		respondError(c, logger, err, "match closing balance")
		return
	}
	c.JSON(http.StatusOK, dto.ReconcileResponse{
		CategoryID:     query.CategoryID,
		Date:           query.Date,
		ClosingBalance: balance,
	})
}
