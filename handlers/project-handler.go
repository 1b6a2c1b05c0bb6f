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

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.UnauthorizedResponse(w, "")
		return
	}

	var body services.ProjectCreate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestResponse(w, "invalid request body")
		return
	}

	project, err := h.projects.Create(r.Context(), user, body)
	if err != nil {
		logging.Logger.Warnf("Failed to create project: %v", err)
		utils.ErrorResponse(w, err)
		return
	}

	logging.Logger.Infof("Project created successfully: %s", project.ID.Hex())
	utils.SuccessResponse(w, "Project Created Successfully", project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.UnauthorizedResponse(w, "")
		return
	}

	list, err := h.projects.List(r.Context(), user)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "Projects Fetched successfully", list)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "", project)
}

func (h *ProjectHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.UnauthorizedResponse(w, "")
		return
	}

	tasks, err := h.projects.GetTasks(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "Tasks fetched successfully", tasks)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body services.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestResponse(w, "invalid request body")
		return
	}

	project, err := h.projects.Update(r.Context(), mux.Vars(r)["id"], body)
	if err != nil {
		logging.Logger.Warnf("Failed to update project: %v", err)
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "Project updated successfully", project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logging.Logger.Errorf("Error during project deletion: %v", err)
		utils.ErrorResponse(w, err)
		return
	}

	logging.Logger.Info("Project and associated tasks deleted successfully")
	utils.SuccessResponse(w, "Project and associated tasks deleted successfully", nil)
}
