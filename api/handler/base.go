package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Poco-dev/todo-bot/api/transport"
	"github.com/Poco-dev/todo-bot/domain"
	"github.com/Poco-dev/todo-bot/internal/middleware"
	"github.com/Poco-dev/todo-bot/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code, message := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, message))
}

// owner returns the identity the middleware resolved, rejecting the request
// when none is present. "Who are you" stays distinct from "no such task".
func (h baseHandler) owner(ctx *fasthttp.RequestCtx) (domain.Identity, bool) {
	owner, ok := middleware.Owner(ctx)
	if !ok {
		h.respondJSON(ctx, http.StatusUnauthorized,
			transport.NewError(string(domain.ErrCodeUnauthorized), domain.ErrUnidentified.Message))
		return domain.Identity{}, false
	}
	return owner, true
}

// mapError keeps the underlying detail out of unavailable/internal responses;
// it is logged instead.
func mapError(err error) (int, string, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized), err.Error()
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid), err.Error()
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound), err.Error()
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusServiceUnavailable, string(domain.ErrCodeUnavailable), domain.ErrStorageUnavailable.Message
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), "internal error"
	}
}
