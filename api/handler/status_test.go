package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Poco-dev/todo-bot/api/transport"
)

func TestStatusEndpointNeedsNoIdentity(t *testing.T) {
	handler, _ := newTestRouter(t)

	ctx := perform(handler, fasthttp.MethodGet, "/api/status", nil, nil)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var body transport.StatusResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))

	// no probes ran in this wiring, so storage reports disconnected
	require.Equal(t, "degraded", body.Status)
	require.False(t, body.StorageConnected)
	require.False(t, body.Timestamp.IsZero())
}

func TestHealthEndpointDegradedWithoutBackends(t *testing.T) {
	handler, _ := newTestRouter(t)

	ctx := perform(handler, fasthttp.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
}
