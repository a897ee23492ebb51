package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	paymentService portssvc.PaymentSvcFacade
}

// RegisterInvoiceRoutes registers routes related to invoices.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService, paymentService: paymentService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("/generate", h.generateInvoices)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/cancel", h.cancelInvoice)
	}
}

// generateInvoices godoc
// @Summary Generate invoices for a period
// @Description Invoices every active learner (or one grade) from the fee structure catalog. Learners already invoiced for the period are skipped.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body dto.GenerateInvoicesRequest true "Period and optional grade"
// @Success 200 {object} dto.GenerateInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No fee structures for the period"
// @Failure 500 {object} map[string]string "Failed to generate invoices"
// @Security BearerAuth
// @Router /invoices/generate [post]
func (h *invoiceHandler) generateInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.GenerateInvoices(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to generate invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToGenerateInvoicesResponse(result))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists invoices newest first with token-based pagination. Status filters on the status derived now.
// @Tags invoices
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Param learnerId query string false "Learner filter"
// @Param gradeId query string false "Grade filter"
// @Param academicYear query string false "Academic year filter"
// @Param term query string false "Term filter"
// @Param status query string false "Status filter" Enums(generated, partial, paid, overdue, cancelled)
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Voids the invoice. The paid amount and balance are frozen; a reason is mandatory.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Param request body dto.CancelInvoiceRequest true "Cancellation reason"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Reason missing"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice already cancelled"
// @Failure 500 {object} map[string]string "Failed to cancel invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CancelInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoiceID := c.Param("invoiceID")
	inv, err := h.paymentService.CancelInvoice(c.Request.Context(), invoiceID, req.Reason, userID)
	if err != nil {
		respondError(c, err, "Failed to cancel invoice")
		return
	}
	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}
