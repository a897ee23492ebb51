package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reminderHandler struct {
	reminderService portssvc.ReminderSvcFacade
}

// RegisterReminderRoutes registers the reminder scheduler routes.
func RegisterReminderRoutes(rg *gin.RouterGroup, reminderService portssvc.ReminderSvcFacade) {
	h := &reminderHandler{reminderService: reminderService}

	reminders := rg.Group("/reminders")
	{
		reminders.GET("/settings", h.getSettings)
		reminders.PUT("/settings", h.saveSettings)
		reminders.POST("/run", h.runNow)
		reminders.GET("/runs", h.listRuns)
	}
}

// getSettings godoc
// @Summary Get reminder automation settings
// @Tags reminders
// @Produce json
// @Success 200 {object} dto.ReminderSettingsResponse
// @Failure 500 {object} map[string]string "Failed to load settings"
// @Security BearerAuth
// @Router /reminders/settings [get]
func (h *reminderHandler) getSettings(c *gin.Context) {
	settings, state, err := h.reminderService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load reminder settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToReminderSettingsResponse(settings, state))
}

// saveSettings godoc
// @Summary Save reminder automation settings
// @Description Stores the settings and re-arms the schedule at now + interval.
// @Tags reminders
// @Accept json
// @Produce json
// @Param request body dto.SaveReminderSettingsRequest true "Automation settings"
// @Success 200 {object} dto.ReminderSettingsResponse
// @Failure 400 {object} map[string]string "Invalid settings"
// @Failure 500 {object} map[string]string "Failed to save settings"
// @Security BearerAuth
// @Router /reminders/settings [put]
func (h *reminderHandler) saveSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaveReminderSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveReminderSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	settings, err := h.reminderService.SaveSettings(c.Request.Context(), req.ToForm(), userID)
	if err != nil {
		respondError(c, err, "Failed to save reminder settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToReminderSettingsResponse(settings, settings.State(false)))
}

// runNow godoc
// @Summary Run reminders now
// @Description Forces a reminder pass regardless of the schedule. A pass already in progress is reported as such.
// @Tags reminders
// @Produce json
// @Success 200 {object} domain.TickResult
// @Failure 500 {object} map[string]string "Failed to run reminders"
// @Security BearerAuth
// @Router /reminders/run [post]
func (h *reminderHandler) runNow(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	result, err := h.reminderService.Tick(c.Request.Context(), true)
	if err != nil {
		respondError(c, err, "Failed to run reminders")
		return
	}
	c.JSON(http.StatusOK, result)
}

// listRuns godoc
// @Summary List reminder runs
// @Tags reminders
// @Produce json
// @Param limit query int false "Number of runs" default(20)
// @Success 200 {array} domain.ReminderRun
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list runs"
// @Security BearerAuth
// @Router /reminders/runs [get]
func (h *reminderHandler) listRuns(c *gin.Context) {
	var params dto.ListReminderRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	runs, err := h.reminderService.ListRuns(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list reminder runs")
		return
	}
	c.JSON(http.StatusOK, runs)
}
