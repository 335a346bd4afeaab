package api

import (
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
)

// Request structures

// CreateTaskRequest defines the payload for POST /tasks.
// Description must be present but may be empty.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description *string `json:"description" validate:"required"`
	Completed   *bool   `json:"completed"`
}

// UpdateTaskRequest defines the payload for PUT /tasks/{id}. Every field is optional.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// UpdateTaskBulkCompletedRequest defines the payload for PUT /tasks-completed.
type UpdateTaskBulkCompletedRequest struct {
	TaskIDs   []int64 `json:"task_id"   validate:"required,dive,gt=0"`
	Completed *bool   `json:"completed"`
}

// DeleteTaskBulkRequest defines the payload for DELETE /tasks.
type DeleteTaskBulkRequest struct {
	TaskIDs []int64 `json:"task_id" validate:"required,dive,gt=0"`
}

// ListTasksQuery holds the optional paging parameters of GET /tasks.
type ListTasksQuery struct {
	Page int `json:"page" validate:"gte=1"`
	Size int `json:"size" validate:"gte=1,lte=100"`
}

// Response structures

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (req CreateTaskRequest) toInput() service.RegisterTaskInput {
	input := service.RegisterTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	return input
}

func (req UpdateTaskRequest) toInput() service.UpdateTaskInput {
	return service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
