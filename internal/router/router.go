package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/Poco-dev/todo-bot/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Status *apiHandler.StatusHandler
}

// New builds the route table. Protected routes run behind the identity
// middleware; everything unmatched falls through to the static web client.
func New(handlers Handlers, identity func(fasthttp.RequestHandler) fasthttp.RequestHandler, webDir string) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Status.Health)
	r.GET("/api/status", handlers.Status.Status)

	r.GET("/api/tasks", identity(handlers.Task.List))
	r.POST("/api/tasks", identity(handlers.Task.Create))
	r.PUT("/api/tasks/{id}", identity(handlers.Task.Update))
	r.DELETE("/api/tasks/{id}", identity(handlers.Task.Delete))
	r.GET("/api/user/stats", identity(handlers.Task.Stats))

	if webDir != "" {
		r.NotFound = fasthttp.FSHandler(webDir, 0)
	}

	return r
}
