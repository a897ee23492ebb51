package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// RegisterBalanceRoutes registers the balance aggregator routes.
func RegisterBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := &balanceHandler{balanceService: balanceService}
	rg.GET("/learners/:learnerID/balance", h.getLearnerBalance)
	rg.GET("/grades/:gradeID/balances", h.getGradeBalances)
}

// period binds the optional period query, defaulting to the calendar's current period.
func (h *balanceHandler) period(c *gin.Context) (domain.Period, bool) {
	var q dto.BalanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind balance query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return domain.Period{}, false
	}
	if p := q.Period(); p != nil {
		return *p, true
	}
	p, err := h.currentPeriod(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to resolve current period")
		return domain.Period{}, false
	}
	return p, true
}

func (h *balanceHandler) currentPeriod(ctx context.Context) (domain.Period, error) {
	p, err := h.balanceService.CurrentPeriod(ctx)
	if err != nil {
		return domain.Period{}, err
	}
	return *p, nil
}

// getLearnerBalance godoc
// @Summary Get a learner's balance
// @Description Folds invoices and payments into current-term and all-time figures. A negative totalBalance is a credit.
// @Tags balances
// @Produce json
// @Param learnerID path string true "Learner ID"
// @Param academicYear query string false "Academic year treated as current"
// @Param term query string false "Term treated as current"
// @Success 200 {object} domain.LearnerBalance
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "No current academic period"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Security BearerAuth
// @Router /learners/{learnerID}/balance [get]
func (h *balanceHandler) getLearnerBalance(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}
	balance, err := h.balanceService.LearnerBalance(c.Request.Context(), c.Param("learnerID"), period)
	if err != nil {
		respondError(c, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getGradeBalances godoc
// @Summary Get the balances of a grade
// @Tags balances
// @Produce json
// @Param gradeID path string true "Grade ID"
// @Param academicYear query string false "Academic year treated as current"
// @Param term query string false "Term treated as current"
// @Success 200 {object} domain.GradeBalanceReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "No current academic period"
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Security BearerAuth
// @Router /grades/{gradeID}/balances [get]
func (h *balanceHandler) getGradeBalances(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}
	report, err := h.balanceService.GradeBalances(c.Request.Context(), c.Param("gradeID"), period)
	if err != nil {
		respondError(c, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, report)
}
