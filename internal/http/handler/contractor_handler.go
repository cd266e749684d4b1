package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/auth"
	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
)

type ContractorHandler struct {
	contractorService *service.ContractorService
	logger            *zap.Logger
}

func NewContractorHandler(contractorService *service.ContractorService, logger *zap.Logger) *ContractorHandler {
	return &ContractorHandler{contractorService: contractorService, logger: logger}
}

// List godoc
// @Summary List contractors
// @Tags Contractors
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param activeOnly query bool false "Only active contractors"
// @Success 200 {object} domain.ListResponse[domain.ContractorDTO]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contractors [get]
func (h *ContractorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	result, err := h.contractorService.List(r.Context(), page, pageSize, activeOnly)
	if err != nil {
		h.logger.Error("failed to list contractors", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create contractor
// @Tags Contractors
// @Accept json
// @Produce json
// @Param request body domain.CreateContractorRequest true "Contractor data"
// @Success 201 {object} domain.ContractorDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contractors [post]
func (h *ContractorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contractor, err := h.contractorService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create contractor", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, contractor)
}

// GetByID godoc
// @Summary Get contractor by ID
// @Tags Contractors
// @Produce json
// @Param id path string true "Contractor ID"
// @Success 200 {object} domain.ContractorDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contractors/{id} [get]
func (h *ContractorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	contractor, err := h.contractorService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contractor)
}

// ListAssignments godoc
// @Summary List contractor assignments
// @Tags Contractors
// @Produce json
// @Param contractorId query string false "Filter by contractor"
// @Param projectId query string false "Filter by project"
// @Success 200 {array} domain.ContractorAssignmentDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contractor-assignments [get]
func (h *ContractorHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	contractorID := queryUUID(r, "contractorId")
	projectID := queryUUID(r, "projectId")

	result, err := h.contractorService.ListAssignments(r.Context(), contractorID, projectID)
	if err != nil {
		h.logger.Error("failed to list contractor assignments", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CreateAssignment godoc
// @Summary Assign contractor to project
// @Description Create an assignment with a fixed contract value. The pending amount starts at the
// contract value and is reduced by recorded payments.
// @Tags Contractors
// @Accept json
// @Produce json
// @Param request body domain.CreateContractorAssignmentRequest true "Assignment data"
// @Success 201 {object} domain.ContractorAssignmentDTO
// @Failure 422 {object} domain.APIError "Validation failed"
// @Failure 423 {object} domain.APIError "Project is finalized"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contractor-assignments [post]
func (h *ContractorHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractorAssignmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	assignment, err := h.contractorService.CreateAssignment(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create contractor assignment", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, assignment)
}

// GetAssignment godoc
// @Summary Get contractor assignment by ID
// @Tags Contractors
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} domain.ContractorAssignmentDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contractor-assignments/{id} [get]
func (h *ContractorHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	assignment, err := h.contractorService.GetAssignment(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}

// RecordPayment godoc
// @Summary Record contractor payment
// @Description Pay out part of an assignment's contract value. The pending amount never goes below
// zero and the assignment completes when it reaches zero.
// @Tags Contractors
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param request body domain.RecordPaymentRequest true "Payment data"
// @Success 200 {object} domain.ContractorAssignmentDTO
// @Failure 422 {object} domain.APIError "Invalid amount"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contractor-assignments/{id}/payments [post]
func (h *ContractorHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.RecordPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	recordedBy := "system"
	if user, ok := auth.FromContext(r.Context()); ok {
		recordedBy = user.DisplayName
	}

	assignment, err := h.contractorService.RecordPayment(r.Context(), id, &req, recordedBy)
	if err != nil {
		h.logger.Error("failed to record contractor payment", zap.Error(err), zap.String("assignment_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}
