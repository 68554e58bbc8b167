package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Poco-dev/todo-bot/api/transport"
	"github.com/Poco-dev/todo-bot/domain"
	"github.com/Poco-dev/todo-bot/repository"
	identityUC "github.com/Poco-dev/todo-bot/usecase/identity"
)

const ownerKey = "owner_identity"

// Identity resolves the calling owner before a protected handler runs and
// rejects the request with 401 when nothing resolves. On success the identity
// is attached to the request and the owner's presence record is touched.
func Identity(resolver *identityUC.Resolver, presence repository.PresenceRepository, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			req := identityUC.Request{
				UserID:       string(ctx.QueryArgs().Peek("user_id")),
				HeaderUserID: string(ctx.Request.Header.Peek("X-User-ID")),
				LaunchToken:  string(ctx.QueryArgs().Peek("token")),
				InitData:     string(ctx.Request.Header.Peek("X-Telegram-Init-Data")),
			}

			owner, err := resolver.Resolve(req)
			if err != nil {
				respondUnidentified(ctx)
				return
			}

			ctx.SetUserValue(ownerKey, owner)
			touchPresence(presence, owner, logger)

			next(ctx)
		}
	}
}

// Owner returns the identity a preceding Identity middleware resolved.
func Owner(ctx *fasthttp.RequestCtx) (domain.Identity, bool) {
	owner, ok := ctx.UserValue(ownerKey).(domain.Identity)
	if !ok || owner.IsZero() {
		return domain.Identity{}, false
	}
	return owner, true
}

func respondUnidentified(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), domain.ErrUnidentified.Message))
	ctx.SetBody(body)
}

func touchPresence(presence repository.PresenceRepository, owner domain.Identity, logger *zap.Logger) {
	if presence == nil {
		return
	}
	touchCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := presence.Touch(touchCtx, owner); err != nil {
		logger.Debug("presence touch failed", zap.Int64("owner", owner.ID), zap.Error(err))
	}
}
