package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/statuspng/statuspng/internal/models"
	"github.com/statuspng/statuspng/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPage_UnknownSlug(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/status/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusPage_AllOperational(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")

	for i := 0; i < 2; i++ {
		monitor := env.createMonitor(t, user.ID, fmt.Sprintf("Service %d", i), fmt.Sprintf("https://svc%d.example.com", i))
		require.NoError(t, env.store.UpdateMonitorStatus(monitor.ID, types.StatusUp, true, time.Now()))
	}

	rec := env.request(t, http.MethodGet, "/api/status/acme", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, "Acme", body["org_name"])
	assert.Equal(t, true, body["all_operational"])
	assert.Equal(t, false, body["has_ongoing"])
	assert.Len(t, body["services"].([]interface{}), 2)
	assert.Empty(t, body["incidents"].([]interface{}))
}

func TestStatusPage_DownMonitorBreaksAggregate(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")

	healthy := env.createMonitor(t, user.ID, "API", "https://api.example.com")
	require.NoError(t, env.store.UpdateMonitorStatus(healthy.ID, types.StatusUp, true, time.Now()))

	broken := env.createMonitor(t, user.ID, "Web", "https://web.example.com")
	require.NoError(t, env.store.UpdateMonitorStatus(broken.ID, types.StatusDown, true, time.Now()))
	require.NoError(t, env.store.InsertIncident(&models.Incident{
		MonitorID:   broken.ID,
		Title:       "Web is down",
		Description: "Monitor returned HTTP 503",
		Report:      "stub report",
		Status:      types.IncidentOngoing,
		StartedAt:   time.Now(),
	}))

	rec := env.request(t, http.MethodGet, "/api/status/acme", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, false, body["all_operational"])
	assert.Equal(t, true, body["has_ongoing"])

	incidents := body["incidents"].([]interface{})
	require.Len(t, incidents, 1)
	incident := incidents[0].(map[string]interface{})
	assert.Equal(t, "Web", incident["monitor_name"])
	assert.Equal(t, "Web is down", incident["title"])
}

func TestStatusPage_UnknownStatusIsNotOperational(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")
	env.createMonitor(t, user.ID, "API", "https://api.example.com")

	rec := env.request(t, http.MethodGet, "/api/status/acme", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, false, body["all_operational"])
}

func TestStatusPage_IncidentHistoryNewestFirstCappedAtTen(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")
	monitor := env.createMonitor(t, user.ID, "API", "https://api.example.com")

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 12; i++ {
		startedAt := base.Add(time.Duration(i) * time.Hour)
		resolvedAt := startedAt.Add(30 * time.Minute)
		require.NoError(t, env.store.InsertIncident(&models.Incident{
			MonitorID:  monitor.ID,
			Title:      fmt.Sprintf("Outage %d", i),
			Status:     types.IncidentResolved,
			StartedAt:  startedAt,
			ResolvedAt: &resolvedAt,
		}))
	}

	rec := env.request(t, http.MethodGet, "/api/status/acme", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	incidents := body["incidents"].([]interface{})
	require.Len(t, incidents, 10)

	assert.Equal(t, "Outage 11", incidents[0].(map[string]interface{})["title"])
	assert.Equal(t, "Outage 2", incidents[9].(map[string]interface{})["title"])
}
