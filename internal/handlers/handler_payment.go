package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// RegisterPaymentRoutes registers the payment ledger routes.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}
	rg.POST("/payments", h.recordPayment)
	rg.GET("/learners/:learnerID/transactions", h.listLearnerTransactions)
}

// recordPayment godoc
// @Summary Record a payment
// @Description Records a received payment. With invoiceId the invoice is settled under a row lock; without it the payment is an ad-hoc fee payment.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount, method or learner mismatch"
// @Failure 404 {object} map[string]string "Invoice or learner not found"
// @Failure 409 {object} map[string]string "Invoice is cancelled"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txn, err := h.paymentService.RecordPayment(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}
	logger.Info("Payment recorded", slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listLearnerTransactions godoc
// @Summary List a learner's payments
// @Description Oldest first, including legacy fee payments.
// @Tags payments
// @Produce json
// @Param learnerID path string true "Learner ID"
// @Success 200 {array} dto.TransactionResponse
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /learners/{learnerID}/transactions [get]
func (h *paymentHandler) listLearnerTransactions(c *gin.Context) {
	txns, err := h.paymentService.ListLearnerTransactions(c.Request.Context(), c.Param("learnerID"))
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}
