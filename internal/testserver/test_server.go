package testserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/domain/session"
	"github.com/torrejon/vecinored/internal/health"
	"github.com/torrejon/vecinored/internal/mcp"
	"github.com/torrejon/vecinored/internal/metrics"
	"github.com/torrejon/vecinored/internal/plan"
	"github.com/torrejon/vecinored/internal/registry"
	"github.com/torrejon/vecinored/internal/sqlite"
	"github.com/torrejon/vecinored/internal/transport"
)

// Passcode is the shared login passcode of every test server.
const Passcode = "torrejon-test"

// Options tweaks the assembled stack.
type Options struct {
	// Plans replaces the static welcome plan generator.
	Plans registry.PlanGenerator
	// Clock drives the logout confirmation window.
	Clock session.Clock
}

// TestServer is the full HTTP stack over an in-memory database.
type TestServer struct {
	Server     *httptest.Server
	DB         *sqlite.DB
	Controller *registry.Controller
	Sessions   *session.Store
	Metrics    *metrics.Registry
}

// New assembles the stack the same way the serve command does.
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()
	ctx := t.Context()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	neighborRepo := sqlite.NewNeighborRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	kv := sqlite.NewKVStore(db)

	activitySvc := activity.NewService(activityRepo, nil)
	neighborSvc := neighbor.NewService(neighborRepo, activitySvc, nil)

	sessionOpts := []session.Option{}
	if opts.Clock != nil {
		sessionOpts = append(sessionOpts, session.WithClock(opts.Clock))
	}
	sessions := session.NewStore(kv, session.NewLocalAuthenticator(Passcode, opts.Clock), nil, sessionOpts...)
	require.NoError(t, sessions.Init(ctx))

	plans := opts.Plans
	if plans == nil {
		plans = plan.NewStatic()
	}
	reg := metrics.New()
	controller := registry.NewController(neighborSvc, plans, nil,
		registry.WithRecorder(reg),
		registry.WithLogoutIndicator(sessions),
	)
	require.NoError(t, controller.Load(ctx))

	mcpServer := mcp.NewServer(mcp.Config{Controller: controller, Activity: activitySvc, Version: "test"})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	router := transport.NewServer(transport.Config{
		Controller: controller,
		Sessions:   sessions,
		Activity:   activitySvc,
		Tokens:     transport.NewTokenIssuer([]byte("test-secret"), time.Hour),
		Health:     health.NewChecker(db, "test"),
		Metrics:    reg,
		MCP:        mcpHandler,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:     server,
		DB:         db,
		Controller: controller,
		Sessions:   sessions,
		Metrics:    reg,
	}
}

// Login authenticates name and returns a bearer token.
func (ts *TestServer) Login(t *testing.T, name string) string {
	t.Helper()
	resp := ts.Do(t, http.MethodPost, "/api/session/login", "", map[string]string{
		"name":     name,
		"passcode": Passcode,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the body into dst.
func (r Response) Decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, dst), string(r.Body))
}

// Do sends a JSON request. An empty token sends no Authorization header.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body any) Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return Response{StatusCode: resp.StatusCode, Body: data}
}
