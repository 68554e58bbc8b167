package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/Poco-dev/todo-bot/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// Key is the type for request metadata stored on the derived context.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// Adapter derives a deadline-bound stdlib context from a fasthttp request so
// repositories and usecases never touch fasthttp directly.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach returns a context carrying the request ID, client address and user
// agent. The ID is minted when the client did not send one, and is echoed back
// on the response either way.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	id := strings.TrimSpace(string(ctx.Request.Header.Peek(requestIDHeader)))
	if id == "" {
		id = uuid.NewString()
	}
	stdCtx = appLogger.ContextWithRequestID(stdCtx, id)
	ctx.Response.Header.Set(requestIDHeader, id)

	if addr := ctx.RemoteAddr(); addr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, addr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	return stdCtx, cancel
}
