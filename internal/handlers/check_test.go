package handlers_test

import (
	"net/http"
	"testing"

	"github.com/statuspng/statuspng/internal/probe"
	"github.com/statuspng/statuspng/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upResult(code int) probe.Result {
	return probe.Result{Status: types.StatusUp, ResponseTime: 10, StatusCode: &code}
}

func downResult(code int) probe.Result {
	return probe.Result{Status: types.StatusDown, ResponseTime: 25, StatusCode: &code}
}

func TestRunCheck_SingleMonitor(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")
	monitor := env.createMonitor(t, user.ID, "API", "https://api.example.com")
	env.prober.results[monitor.URL] = upResult(200)

	rec := env.request(t, http.MethodPost, "/api/check", map[string]interface{}{
		"monitor_id": monitor.ID,
	}, &user)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["success"])
	result := body["result"].(map[string]interface{})
	assert.Equal(t, "up", result["status"])
	assert.Equal(t, true, result["transitioned"])

	updated, err := env.store.GetMonitor(monitor.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusUp, updated.Status)
}

func TestRunCheck_RequiresSessionForSingleMonitor(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")
	monitor := env.createMonitor(t, user.ID, "API", "https://api.example.com")

	rec := env.request(t, http.MethodPost, "/api/check", map[string]interface{}{
		"monitor_id": monitor.ID,
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRunCheck_ForbiddenForForeignMonitor(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", "Acme", "free")
	other := env.createUser(t, "other@example.com", "Globex", "free")
	monitor := env.createMonitor(t, owner.ID, "API", "https://api.example.com")
	env.prober.results[monitor.URL] = upResult(200)

	rec := env.request(t, http.MethodPost, "/api/check", map[string]interface{}{
		"monitor_id": monitor.ID,
	}, &other)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Nothing mutated.
	updated, err := env.store.GetMonitor(monitor.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusUnknown, updated.Status)

	checks, err := env.store.ListChecks(monitor.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, checks)
}

func TestRunCheck_UnknownMonitor(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")

	rec := env.request(t, http.MethodPost, "/api/check", map[string]interface{}{
		"monitor_id": 999,
	}, &user)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunCheck_BulkSweepWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", "Acme", "free")
	other := env.createUser(t, "other@example.com", "Globex", "free")

	up := env.createMonitor(t, owner.ID, "API", "https://api.example.com")
	down := env.createMonitor(t, other.ID, "Web", "https://web.example.com")
	env.prober.results[up.URL] = upResult(200)
	env.prober.results[down.URL] = downResult(503)

	rec := env.request(t, http.MethodPost, "/api/check", map[string]interface{}{}, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, float64(2), body["checked"])
	assert.Len(t, body["results"].([]interface{}), 2)

	// The down monitor opened an incident with a report.
	incidents, err := env.store.ListIncidents(down.ID)
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, types.IncidentOngoing, incidents[0].Status)
	assert.NotEmpty(t, incidents[0].Report)
}
