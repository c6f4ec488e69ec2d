package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// categoryHandler handles HTTP requests related to transaction categories.
type categoryHandler struct {
	categoryService       portssvc.CategorySvcFacade
	closingBalanceService portssvc.ClosingBalanceWriterSvc
}

// newCategoryHandler creates a new categoryHandler.
func newCategoryHandler(cs portssvc.CategorySvcFacade, cbs portssvc.ClosingBalanceWriterSvc) *categoryHandler {
	return &categoryHandler{
		categoryService:       cs,
		closingBalanceService: cbs,
	}
}

// registerCategoryRoutes registers routes related to categories and party onboarding.
func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade, closingBalanceService portssvc.ClosingBalanceWriterSvc) {
	h := newCategoryHandler(categoryService, closingBalanceService)

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("/dropdown", h.listDropdown)
		categories.GET("/code/:code", h.getCategoryByCode)
		categories.GET("/:id", h.getCategory)
		categories.GET("/:id/editable", h.isEditable)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deleteCategory)
		categories.POST("/:id/closing-balances/rebuild", h.rebuildClosingBalances)
	}
	rg.POST("/parties/categories", h.createPartyCategories)
}

func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.ActorOrSystem(c)
	logger = logger.With(slog.String("actor_user_id", actor))
	logger.Info("Received request to create category", slog.String("chart_of_account", req.ChartOfAccountCode))

	cat, err := h.categoryService.CreateCategory(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, dto.FromTransactionCategory(*cat))
}

func (h *categoryHandler) getCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.categoryService.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "retrieve category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(*cat))
}

func (h *categoryHandler) getCategoryByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	cat, err := h.categoryService.GetCategoryByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, logger, err, "retrieve category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(*cat))
}

func (h *categoryHandler) isEditable(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	editable, err := h.categoryService.IsEditable(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "check category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "editable": editable})
}

// listDropdown returns selectable categories keyed by chart of account code.
func (h *categoryHandler) listDropdown(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	grouped, err := h.categoryService.ListDropdown(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "list categories")
		return
	}
	resp := make(map[string][]dto.CategoryResponse, len(grouped))
	for coa, cats := range grouped {
		for _, cat := range cats {
			resp[coa] = append(resp[coa], dto.ToCategoryResponse(cat))
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *categoryHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.ActorOrSystem(c)
	logger = logger.With(slog.String("actor_user_id", actor), slog.Int64("category_id", id))
	cat, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req, actor)
	if err != nil {
		respondError(c, logger, err, "update category")
		return
	}
	c.JSON(http.StatusOK, dto.FromTransactionCategory(*cat))
}

// deleteCategory soft-deletes a category. The version the client read goes in ?versionNumber=.
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	version, err := strconv.Atoi(c.Query("versionNumber"))
	if err != nil || version < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "versionNumber query parameter is required"})
		return
	}

	actor := middleware.ActorOrSystem(c)
	logger = logger.With(slog.String("actor_user_id", actor), slog.Int64("category_id", id))
	if err := h.categoryService.DeleteCategory(c.Request.Context(), id, version, actor); err != nil {
		respondError(c, logger, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

// rebuildClosingBalances recomputes every snapshot of a category from its legs.
func (h *categoryHandler) rebuildClosingBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	n, err := h.closingBalanceService.RebuildClosingBalances(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "rebuild closing balances")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categoryID": id, "snapshots": n})
}

func (h *categoryHandler) createPartyCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.OnboardPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePartyCategories", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.ActorOrSystem(c)
	relations, err := h.categoryService.CreatePartyCategories(c.Request.Context(), req.ToDomain(), actor)
	if err != nil {
		respondError(c, logger.With(slog.String("actor_user_id", actor)), err, "create party categories")
		return
	}
	c.JSON(http.StatusCreated, relations)
}
