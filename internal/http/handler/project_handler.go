package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, logger: logger}
}

// List godoc
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param customerId query string false "Filter by customer"
// @Param status query string false "Filter by status" Enums(open, in_progress, on_hold, completed, cancelled)
// @Success 200 {object} domain.ListResponse[domain.ProjectDTO]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	customerID := queryUUID(r, "customerId")

	var status *domain.ProjectStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ps := domain.ProjectStatus(s)
		status = &ps
	}

	result, err := h.projectService.List(r.Context(), page, pageSize, customerID, status)
	if err != nil {
		h.logger.Error("failed to list projects", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get project by ID
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// Update godoc
// @Summary Update project
// @Description Edit project fields. A finalized project (signed delivery note) rejects all edits.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.UpdateProjectRequest true "Project data"
// @Success 200 {object} domain.ProjectDTO
// @Failure 423 {object} domain.APIError "Project is finalized"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update project", zap.Error(err), zap.String("project_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// Transition godoc
// @Summary Change project status
// @Description Apply a status transition. Completion is reserved for the delivery-note sign-off.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.TransitionRequest true "Target status"
// @Success 200 {object} domain.ProjectDTO
// @Failure 409 {object} domain.APIError "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/transition [post]
func (h *ProjectHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.TransitionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.Transition(r.Context(), id, domain.ProjectStatus(req.Status))
	if err != nil {
		h.logger.Error("project transition failed", zap.Error(err), zap.String("project_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// SignDeliveryNote godoc
// @Summary Sign delivery note
// @Description Record the customer sign-off, complete the project and freeze it. Irreversible.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.SignDeliveryNoteRequest true "Signer"
// @Success 200 {object} domain.ProjectDTO
// @Failure 423 {object} domain.APIError "Already signed"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/sign-delivery-note [post]
func (h *ProjectHandler) SignDeliveryNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.SignDeliveryNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.SignDeliveryNote(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to sign delivery note", zap.Error(err), zap.String("project_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}
