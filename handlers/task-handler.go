package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/middleware"
	"github.com/Muhammad-Huzaifa24/backend-PMS/services"
	"github.com/Muhammad-Huzaifa24/backend-PMS/utils"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.UnauthorizedResponse(w, "")
		return
	}

	var body services.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestResponse(w, "invalid request body")
		return
	}

	task, err := h.tasks.Create(r.Context(), user, body)
	if err != nil {
		logging.Logger.Warnf("Failed to create task: %v", err)
		utils.ErrorResponse(w, err)
		return
	}

	logging.Logger.Info("Task created successfully")
	utils.SuccessResponse(w, "Task Created Successfully", task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.UnauthorizedResponse(w, "")
		return
	}

	tasks, err := h.tasks.ListFor(r.Context(), user)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "", tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "", task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.UnauthorizedResponse(w, "")
		return
	}

	var body services.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestResponse(w, "invalid request body")
		return
	}

	task, err := h.tasks.Update(r.Context(), user, mux.Vars(r)["id"], body)
	if err != nil {
		logging.Logger.Warnf("Failed to update task: %v", err)
		utils.ErrorResponse(w, err)
		return
	}

	logging.Logger.Info("Task updated successfully")
	utils.SuccessResponse(w, "Task updated successfully", task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.tasks.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logging.Logger.Warnf("Failed to delete task: %v", err)
		utils.ErrorResponse(w, err)
		return
	}

	logging.Logger.Info("Task deleted successfully and user notified")
	utils.SuccessResponse(w, "Task deleted successfully", map[string]string{"taskId": taskID})
}
