package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/statuspng/statuspng/internal/auth"
	"github.com/statuspng/statuspng/internal/handlers"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, srv *httptest.Server, userID uint, email string) *websocket.Conn {
	t.Helper()

	token, err := auth.GenerateJWT(userID, email)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Origin", "http://localhost:3000")
	header.Set("Cookie", "token="+token)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	var welcome map[string]string
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, "connected", welcome["type"])

	return conn
}

func TestWebSocket_BroadcastRefresh(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")

	srv := httptest.NewServer(env.engine)
	defer srv.Close()

	conn := dialWS(t, srv, user.ID, user.Email)
	defer conn.Close()

	handlers.BroadcastRefresh(user.ID, 7, "down")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "refresh", msg["type"])
	require.Equal(t, float64(7), msg["monitor_id"])
	require.Equal(t, "down", msg["status"])
}

func TestWebSocket_PingLoopStopsAfterDisconnect(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "Acme", "free")

	srv := httptest.NewServer(env.engine)
	defer srv.Close()

	before := runtime.NumGoroutine()

	conn := dialWS(t, srv, user.ID, user.Email)
	require.NoError(t, conn.Close())

	// The server-side read loop and its ping goroutine must both wind
	// down once the client hangs up.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+1
	}, 3*time.Second, 20*time.Millisecond)
}
