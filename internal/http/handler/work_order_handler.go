package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
)

type WorkOrderHandler struct {
	workOrderService *service.WorkOrderService
	logger           *zap.Logger
}

func NewWorkOrderHandler(workOrderService *service.WorkOrderService, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService, logger: logger}
}

// List godoc
// @Summary List work orders
// @Tags WorkOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param projectId query string false "Filter by project"
// @Param status query string false "Filter by status" Enums(planned, in_progress, completed, cancelled)
// @Success 200 {object} domain.ListResponse[domain.WorkOrderDTO]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders [get]
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	projectID := queryUUID(r, "projectId")

	var status *domain.WorkOrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ws := domain.WorkOrderStatus(s)
		status = &ws
	}

	result, err := h.workOrderService.List(r.Context(), page, pageSize, projectID, status)
	if err != nil {
		h.logger.Error("failed to list work orders", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create work order
// @Description Create a work order under a project. Material and labor costs are computed server-side.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param request body domain.CreateWorkOrderRequest true "Work order data"
// @Success 201 {object} domain.WorkOrderDTO
// @Failure 423 {object} domain.APIError "Project is finalized"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders [post]
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	workOrder, err := h.workOrderService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create work order", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, workOrder)
}

// GetByID godoc
// @Summary Get work order by ID
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	workOrder, err := h.workOrderService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}

// Update godoc
// @Summary Update work order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.UpdateWorkOrderRequest true "Work order data"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 423 {object} domain.APIError "Work order or project is finalized"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id} [put]
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateWorkOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	workOrder, err := h.workOrderService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update work order", zap.Error(err), zap.String("work_order_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}

// Transition godoc
// @Summary Change work order status
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.TransitionRequest true "Target status"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 409 {object} domain.APIError "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/transition [post]
func (h *WorkOrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.TransitionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	workOrder, err := h.workOrderService.Transition(r.Context(), id, domain.WorkOrderStatus(req.Status))
	if err != nil {
		h.logger.Error("work order transition failed", zap.Error(err), zap.String("work_order_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}
