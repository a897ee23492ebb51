package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

// RegisterCatalogRoutes registers fee structure and discount routes.
func RegisterCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := &catalogHandler{catalogService: catalogService}

	rg.GET("/fee-structures", h.listFeeStructures)
	rg.POST("/fee-structures", h.createFeeStructure)
	rg.GET("/discounts", h.listDiscounts)
	rg.PUT("/discounts", h.updateDiscount)
}

// createFeeStructure godoc
// @Summary Create a fee structure
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateFeeStructureRequest true "Fee structure"
// @Success 201 {object} domain.FeeStructure
// @Failure 400 {object} map[string]string "Invalid fee structure"
// @Failure 409 {object} map[string]string "Grade already has a structure for the period"
// @Failure 500 {object} map[string]string "Failed to create fee structure"
// @Security BearerAuth
// @Router /fee-structures [post]
func (h *catalogHandler) createFeeStructure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFeeStructure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fs, err := h.catalogService.CreateFeeStructure(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create fee structure")
		return
	}
	logger.Info("Fee structure created", slog.String("fee_structure_id", fs.FeeStructureID), slog.String("grade_id", fs.GradeID))
	c.JSON(http.StatusCreated, fs)
}

// listFeeStructures godoc
// @Summary List fee structures of a period
// @Tags catalog
// @Produce json
// @Param academicYear query string true "Academic year"
// @Param term query string true "Term"
// @Success 200 {array} domain.FeeStructure
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list fee structures"
// @Security BearerAuth
// @Router /fee-structures [get]
func (h *catalogHandler) listFeeStructures(c *gin.Context) {
	var params dto.ListFeeStructuresParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	period := domain.Period{AcademicYear: params.AcademicYear, Term: params.Term}
	structures, err := h.catalogService.ListFeeStructures(c.Request.Context(), period)
	if err != nil {
		respondError(c, err, "Failed to list fee structures")
		return
	}
	c.JSON(http.StatusOK, structures)
}

// listDiscounts godoc
// @Summary List discount settings
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.DiscountSetting
// @Failure 500 {object} map[string]string "Failed to list discounts"
// @Security BearerAuth
// @Router /discounts [get]
func (h *catalogHandler) listDiscounts(c *gin.Context) {
	settings, err := h.catalogService.ListDiscountSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list discount settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// updateDiscount godoc
// @Summary Update a discount setting
// @Description Changes apply to invoices generated afterwards; existing invoices keep their discount.
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.UpdateDiscountSettingRequest true "Discount setting"
// @Success 200 {object} domain.DiscountSetting
// @Failure 400 {object} map[string]string "Invalid discount setting"
// @Failure 500 {object} map[string]string "Failed to update discount"
// @Security BearerAuth
// @Router /discounts [put]
func (h *catalogHandler) updateDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateDiscountSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDiscountSetting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	setting, err := h.catalogService.UpdateDiscountSetting(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update discount setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}
