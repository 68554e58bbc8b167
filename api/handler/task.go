package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Poco-dev/todo-bot/api/transport"
	"github.com/Poco-dev/todo-bot/domain"
	"github.com/Poco-dev/todo-bot/pkg/httpcontext"
	taskUC "github.com/Poco-dev/todo-bot/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the owner's tasks
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	owner, ok := h.owner(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, owner.ID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Create a task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	owner, ok := h.owner(ctx)
	if !ok {
		return
	}

	var req transport.CreateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), domain.ErrInvalidPayload.Message))
		return
	}
	if req.DisplayName != "" {
		owner.Username = req.DisplayName
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Add(stdCtx, owner, req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Set a task's completion flag
// @Tags tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	owner, ok := h.owner(ctx)
	if !ok {
		return
	}

	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.UpdateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Completed == nil {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), domain.ErrInvalidPayload.Message))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Toggle(stdCtx, id, owner.ID, *req.Completed)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Delete a task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	owner, ok := h.owner(ctx)
	if !ok {
		return
	}

	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Remove(stdCtx, id, owner.ID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.DeleteResponse{Deleted: true})
}

// taskID extracts and validates the {id} path segment. Ids are store-assigned
// UUIDs, so a non-UUID value can never name an existing task: it gets the same
// 404 a well-formed miss would, keeping malformed ids out of the store layer.
func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "missing task id"))
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		h.respondJSON(ctx, http.StatusNotFound,
			transport.NewError(string(domain.ErrCodeNotFound), domain.ErrTaskNotFound.Message))
		return "", false
	}
	return id, true
}

// @Summary Per-owner task counts
// @Tags tasks
// @Router /api/user/stats [get]
func (h *TaskHandler) Stats(ctx *fasthttp.RequestCtx) {
	owner, ok := h.owner(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.Summarize(stdCtx, owner.ID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, stats)
}
