package handlers

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/statuspng/statuspng/internal/store"
	"github.com/statuspng/statuspng/internal/types"
)

type StatusPageResponse struct {
	OrgName        string               `json:"org_name"`
	AllOperational bool                 `json:"all_operational"`
	HasOngoing     bool                 `json:"has_ongoing"`
	Services       []ServiceStatus      `json:"services"`
	Incidents      []StatusPageIncident `json:"incidents"`
}

type ServiceStatus struct {
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	LastChecked *time.Time `json:"last_checked"`
}

type StatusPageIncident struct {
	MonitorName string     `json:"monitor_name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Report      string     `json:"report,omitempty"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

const statusPageIncidentLimit = 10

// GetStatusPage serves the public status artifact for an organization
// slug: overall health, per-service status, and recent incident history.
func (h *Handler) GetStatusPage(ctx *gin.Context) {
	slug := ctx.Param("slug")

	user, err := h.store.GetUserBySlug(slug)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Status page not found"})
		} else {
			log.Printf("Failed to fetch org %q: %v", slug, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	monitors, err := h.store.ListMonitorsForUser(user.ID)

	if err != nil {
		log.Printf("Failed to list monitors for org %q: %v", slug, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	allOperational := true
	services := make([]ServiceStatus, 0, len(monitors))
	var incidents []StatusPageIncident

	for _, monitor := range monitors {
		if monitor.Status != types.StatusUp {
			allOperational = false
		}

		services = append(services, ServiceStatus{
			Name:        monitor.Name,
			Status:      monitor.Status,
			LastChecked: monitor.LastChecked,
		})

		monitorIncidents, err := h.store.ListIncidents(monitor.ID)
		if err != nil {
			log.Printf("Failed to list incidents for monitor %d: %v", monitor.ID, err)
			continue
		}

		for _, incident := range monitorIncidents {
			incidents = append(incidents, StatusPageIncident{
				MonitorName: monitor.Name,
				Title:       incident.Title,
				Description: incident.Description,
				Report:      incident.Report,
				Status:      incident.Status,
				StartedAt:   incident.StartedAt,
				ResolvedAt:  incident.ResolvedAt,
			})
		}
	}

	sort.Slice(incidents, func(i, j int) bool {
		return incidents[i].StartedAt.After(incidents[j].StartedAt)
	})

	hasOngoing := false
	for _, incident := range incidents {
		if incident.Status == types.IncidentOngoing {
			hasOngoing = true
			break
		}
	}

	if len(incidents) > statusPageIncidentLimit {
		incidents = incidents[:statusPageIncidentLimit]
	}

	if incidents == nil {
		incidents = []StatusPageIncident{}
	}

	ctx.JSON(http.StatusOK, StatusPageResponse{
		OrgName:        user.OrgName,
		AllOperational: allOperational,
		HasOngoing:     hasOngoing,
		Services:       services,
		Incidents:      incidents,
	})
}
