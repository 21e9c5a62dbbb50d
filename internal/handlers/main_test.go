package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/statuspng/statuspng/internal/auth"
	"github.com/statuspng/statuspng/internal/checker"
	"github.com/statuspng/statuspng/internal/handlers"
	"github.com/statuspng/statuspng/internal/models"
	"github.com/statuspng/statuspng/internal/probe"
	"github.com/statuspng/statuspng/internal/router"
	"github.com/statuspng/statuspng/internal/store"
	"github.com/statuspng/statuspng/internal/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// mapProber returns a canned result per URL. URLs without an entry fail
// at the transport layer.
type mapProber struct {
	results map[string]probe.Result
}

func (p *mapProber) Probe(ctx context.Context, url string, timeoutSeconds int) probe.Result {
	if result, ok := p.results[url]; ok {
		return result
	}
	return probe.Result{Status: types.StatusDown, ErrorMessage: "no such host"}
}

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, monitor models.Monitor, statusCode *int, errorMessage string) string {
	return "stub report for " + monitor.Name
}

type testEnv struct {
	store  *store.Memory
	prober *mapProber
	engine *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemory()
	prober := &mapProber{results: make(map[string]probe.Result)}
	svc := checker.NewService(st, prober, stubGenerator{})
	h := handlers.NewHandler(st, svc)

	return &testEnv{
		store:  st,
		prober: prober,
		engine: router.NewRouter(h, st),
	}
}

func (e *testEnv) createUser(t *testing.T, email, orgName, plan string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		OrgName:      orgName,
		OrgSlug:      auth.GenerateOrgSlug(orgName),
		Plan:         plan,
	}
	require.NoError(t, e.store.CreateUser(&user))
	return user
}

func (e *testEnv) createMonitor(t *testing.T, userID uint, name, url string) models.Monitor {
	t.Helper()

	monitor := models.Monitor{
		UserID:        userID,
		Name:          name,
		URL:           url,
		CheckInterval: 60,
		Timeout:       30,
		Status:        types.StatusUnknown,
	}
	require.NoError(t, e.store.CreateMonitor(&monitor))
	return monitor
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if user != nil {
		token, err := auth.GenerateJWT(user.ID, user.Email)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
