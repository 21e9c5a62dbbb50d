package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/statuspng/statuspng/internal/models"
	"github.com/statuspng/statuspng/internal/store"
	"github.com/statuspng/statuspng/internal/types"
	"github.com/statuspng/statuspng/internal/utils"
)

type CreateMonitorRequest struct {
	Name          string `json:"name" binding:"required"`
	URL           string `json:"url" binding:"required"`
	CheckInterval int    `json:"check_interval"`
	Timeout       int    `json:"timeout"`
}

type MonitorSummary struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	URL              string     `json:"url"`
	CheckInterval    int        `json:"check_interval"`
	Timeout          int        `json:"timeout"`
	Status           string     `json:"status"`
	LastChecked      *time.Time `json:"last_checked"`
	LastStatusChange *time.Time `json:"last_status_change"`
}

type CheckSummary struct {
	ID           uint      `json:"id"`
	Status       string    `json:"status"`
	ResponseTime int       `json:"response_time"`
	StatusCode   *int      `json:"status_code"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}

type IncidentSummary struct {
	ID          uint       `json:"id"`
	MonitorID   uint       `json:"monitor_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Report      string     `json:"report,omitempty"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

const recentChecksLimit = 20

func (h *Handler) CreateMonitor(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateMonitorRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "URL must be a valid http(s) address"})
		return
	}

	if currentUser.Plan == types.PlanFree {
		existing, err := h.store.ListMonitorsForUser(currentUser.ID)
		if err != nil {
			log.Printf("Failed to count monitors for user %d: %v", currentUser.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if len(existing) >= types.FreeMonitorLimit {
			ctx.JSON(http.StatusForbidden, gin.H{
				"error": "Free plan limited to 3 monitors. Upgrade to add more.",
			})
			return
		}
	}

	checkInterval := req.CheckInterval
	if checkInterval <= 0 {
		checkInterval = 60
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	monitor := models.Monitor{
		UserID:        currentUser.ID,
		Name:          req.Name,
		URL:           req.URL,
		CheckInterval: checkInterval,
		Timeout:       timeout,
		Status:        types.StatusUnknown,
	}

	if err := h.store.CreateMonitor(&monitor); err != nil {
		log.Printf("Failed to create monitor: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create monitor"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Monitor created successfully", "monitor_id": monitor.ID})
}

func (h *Handler) ListMonitors(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	monitors, err := h.store.ListMonitorsForUser(currentUser.ID)

	if err != nil {
		log.Printf("Failed to list monitors for user %d: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve monitors"})
		return
	}

	summaries := make([]MonitorSummary, 0, len(monitors))
	for _, monitor := range monitors {
		summaries = append(summaries, monitorSummary(monitor))
	}

	ctx.JSON(http.StatusOK, gin.H{"monitors": summaries})
}

func (h *Handler) DeleteMonitor(ctx *gin.Context) {
	monitor, ok := h.ownedMonitor(ctx)
	if !ok {
		return
	}

	if err := h.store.DeleteMonitor(monitor.ID); err != nil {
		log.Printf("Failed to delete monitor %d: %v", monitor.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete monitor"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *Handler) GetMonitorChecks(ctx *gin.Context) {
	monitor, ok := h.ownedMonitor(ctx)
	if !ok {
		return
	}

	checks, err := h.store.ListChecks(monitor.ID, recentChecksLimit)

	if err != nil {
		log.Printf("Failed to list checks for monitor %d: %v", monitor.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get checks"})
		return
	}

	summaries := make([]CheckSummary, 0, len(checks))
	for _, check := range checks {
		summaries = append(summaries, CheckSummary{
			ID:           check.ID,
			Status:       check.Status,
			ResponseTime: check.ResponseTime,
			StatusCode:   check.StatusCode,
			ErrorMessage: check.ErrorMessage,
			CheckedAt:    check.CheckedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"checks": summaries})
}

func (h *Handler) GetMonitorIncidents(ctx *gin.Context) {
	monitor, ok := h.ownedMonitor(ctx)
	if !ok {
		return
	}

	incidents, err := h.store.ListIncidents(monitor.ID)

	if err != nil {
		log.Printf("Failed to list incidents for monitor %d: %v", monitor.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get incidents"})
		return
	}

	summaries := make([]IncidentSummary, 0, len(incidents))
	for _, incident := range incidents {
		summaries = append(summaries, incidentSummary(incident))
	}

	ctx.JSON(http.StatusOK, gin.H{"incidents": summaries})
}

// ownedMonitor resolves the :monitor_id parameter and enforces that the
// caller owns the monitor. It writes the error response itself when the
// lookup fails.
func (h *Handler) ownedMonitor(ctx *gin.Context) (*models.Monitor, bool) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	monitorID, err := utils.GetMonitorID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	monitor, err := h.store.GetMonitor(monitorID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Monitor not found"})
		} else {
			log.Printf("Failed to fetch monitor %d: %v", monitorID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve monitor"})
		}
		return nil, false
	}

	if monitor.UserID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}

	return monitor, true
}

func monitorSummary(monitor models.Monitor) MonitorSummary {
	return MonitorSummary{
		ID:               monitor.ID,
		Name:             monitor.Name,
		URL:              monitor.URL,
		CheckInterval:    monitor.CheckInterval,
		Timeout:          monitor.Timeout,
		Status:           monitor.Status,
		LastChecked:      monitor.LastChecked,
		LastStatusChange: monitor.LastStatusChange,
	}
}

func incidentSummary(incident models.Incident) IncidentSummary {
	return IncidentSummary{
		ID:          incident.ID,
		MonitorID:   incident.MonitorID,
		Title:       incident.Title,
		Description: incident.Description,
		Report:      incident.Report,
		Status:      incident.Status,
		StartedAt:   incident.StartedAt,
		ResolvedAt:  incident.ResolvedAt,
	}
}
