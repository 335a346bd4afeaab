package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/service"
)

// Success messages.
const (
	MsgTaskFound   = "Success get task"
	MsgTaskCreated = "Success create task"
	MsgTaskUpdated = "Success update task"
	MsgTaskDeleted = "Success delete task"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// Routes mounts the task endpoints on r. create wraps POST /tasks so the
// caller can add per-route middleware such as idempotency keys.
func (h *TaskHandler) Routes(r chi.Router, create func(http.Handler) http.Handler) {
	createHandler := http.Handler(http.HandlerFunc(h.CreateTask))
	if create != nil {
		createHandler = create(createHandler)
	}

	r.Method(http.MethodPost, "/tasks", createHandler)
	r.Get("/tasks", h.FindTask)
	r.Get("/tasks/{id}", h.DetailTask)
	r.Put("/tasks/{id}", h.UpdateTaskDetail)
	r.Delete("/tasks", h.DeleteTaskBulk)
	r.Put("/tasks-completed", h.UpdateTaskCompletedBulk)
}

// FindTask handles GET /tasks requests. With ?page= or ?size= the response
// uses the paginated envelope.
func (h *TaskHandler) FindTask(w http.ResponseWriter, r *http.Request) {
	paging, paged, fieldErrs := getPaging(r)
	if len(fieldErrs) > 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgBadRequest, fieldErrs)
		return
	}

	if paged {
		page, err := h.taskService.FindTaskPage(r.Context(), paging.Page, paging.Size)
		if err != nil {
			HandleAPIError(w, r, err, nil)
			return
		}
		shared.RespondPaginated(w, r, http.StatusOK, "", tasksToResponse(page.Tasks),
			page.TotalCount, page.Page, page.Size)
		return
	}

	tasks, err := h.taskService.FindTask(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, nil)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "", tasksToResponse(tasks))
}

// DetailTask handles GET /tasks/{id} requests
func (h *TaskHandler) DetailTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathTaskID(r, "id")
	if err != nil {
		h.rejectID(w, r, err)
		return
	}

	task, err := h.taskService.DetailTaskByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, notFoundOr(err, id, chi.URLParam(r, "id")))
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, MsgTaskFound, taskToResponse(task))
}

// CreateTask handles POST /tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.RegisterTask(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, req)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created", "task_id", task.ID)
	shared.RespondSuccess(w, r, http.StatusOK, MsgTaskCreated, taskToResponse(task))
}

// UpdateTaskDetail handles PUT /tasks/{id} requests
func (h *TaskHandler) UpdateTaskDetail(w http.ResponseWriter, r *http.Request) {
	id, err := getPathTaskID(r, "id")
	if err != nil {
		h.rejectID(w, r, err)
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskDetails(r.Context(), id, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, notFoundOr(err, id, req))
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, MsgTaskUpdated, taskToResponse(task))
}

// UpdateTaskCompletedBulk handles PUT /tasks-completed requests.
// Unknown IDs are ignored and the response data is always null.
func (h *TaskHandler) UpdateTaskCompletedBulk(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskBulkCompletedRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.taskService.UpdateTaskBulkCompleted(r.Context(), service.UpdateTaskBulkCompletedInput{
		TaskIDs:   req.TaskIDs,
		Completed: req.Completed,
	})
	if err != nil {
		HandleAPIError(w, r, err, req)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, MsgTaskUpdated, nil)
}

// DeleteTaskBulk handles DELETE /tasks requests.
// Unknown IDs are ignored and the response data is always null.
func (h *TaskHandler) DeleteTaskBulk(w http.ResponseWriter, r *http.Request) {
	var req DeleteTaskBulkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.taskService.DeleteTaskBulk(r.Context(), service.DeleteTaskBulkInput{TaskIDs: req.TaskIDs})
	if err != nil {
		HandleAPIError(w, r, err, req)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, MsgTaskDeleted, nil)
}

func (h *TaskHandler) rejectID(w http.ResponseWriter, r *http.Request, err error) {
	raw := chi.URLParam(r, "id")
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("invalid task id",
		"value", raw,
		"error", err)
	shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidID, raw)
}

// notFoundOr picks the dataError for a failed lookup: the ID for a 404,
// otherwise fallback.
func notFoundOr(err error, id int64, fallback interface{}) interface{} {
	if MapErrorToStatusCode(err) == http.StatusNotFound {
		return id
	}
	return fallback
}
