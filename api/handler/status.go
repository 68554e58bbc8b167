package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Poco-dev/todo-bot/api/transport"
	"github.com/Poco-dev/todo-bot/internal/infrastructure/monitor"
	"github.com/Poco-dev/todo-bot/pkg/httpcontext"
)

type StatusHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewStatusHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Service status for the web client
// @Tags status
// @Router /api/status [get]
func (h *StatusHandler) Status(ctx *fasthttp.RequestCtx) {
	connected := h.monitor.IsOnline()

	state := "ok"
	if !connected {
		state = "degraded"
	}

	h.respondJSON(ctx, http.StatusOK, transport.StatusResponse{
		Status:           state,
		StorageConnected: connected,
		Timestamp:        time.Now().UTC(),
	})
}

// @Summary Full dependency health
// @Tags status
// @Router /health [get]
func (h *StatusHandler) Health(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"postgresql": status.Postgres,
			"redis":      status.Redis,
			"bot_state":  status.BotState,
		},
		"last_check": status.LastCheck,
	}

	if status.Postgres {
		h.respondJSON(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, payload)
}
