package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
)

type SalesOrderHandler struct {
	salesOrderService *service.SalesOrderService
	projectService    *service.ProjectService
	logger            *zap.Logger
}

func NewSalesOrderHandler(salesOrderService *service.SalesOrderService, projectService *service.ProjectService, logger *zap.Logger) *SalesOrderHandler {
	return &SalesOrderHandler{
		salesOrderService: salesOrderService,
		projectService:    projectService,
		logger:            logger,
	}
}

// List godoc
// @Summary List sales orders
// @Tags SalesOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param customerId query string false "Filter by customer"
// @Param status query string false "Filter by status" Enums(draft, pending, in_progress, done, cancelled)
// @Success 200 {object} domain.ListResponse[domain.SalesOrderDTO]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders [get]
func (h *SalesOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	customerID := queryUUID(r, "customerId")

	var status *domain.SalesOrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ss := domain.SalesOrderStatus(s)
		status = &ss
	}

	result, err := h.salesOrderService.List(r.Context(), page, pageSize, customerID, status)
	if err != nil {
		h.logger.Error("failed to list sales orders", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create sales order
// @Description Create a draft sales order, optionally referencing an accepted quotation
// @Tags SalesOrders
// @Accept json
// @Produce json
// @Param request body domain.CreateSalesOrderRequest true "Sales order data"
// @Success 201 {object} domain.SalesOrderDTO
// @Failure 422 {object} domain.APIError "Validation failed"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders [post]
func (h *SalesOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSalesOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.salesOrderService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create sales order", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GetByID godoc
// @Summary Get sales order by ID
// @Tags SalesOrders
// @Produce json
// @Param id path string true "Sales order ID"
// @Success 200 {object} domain.SalesOrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.salesOrderService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Update godoc
// @Summary Update sales order
// @Tags SalesOrders
// @Accept json
// @Produce json
// @Param id path string true "Sales order ID"
// @Param request body domain.UpdateSalesOrderRequest true "Sales order data"
// @Success 200 {object} domain.SalesOrderDTO
// @Failure 423 {object} domain.APIError "Order is finalized"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders/{id} [put]
func (h *SalesOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateSalesOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.salesOrderService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update sales order", zap.Error(err), zap.String("sales_order_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Submit godoc
// @Summary Submit sales order
// @Description Move a draft order to pending. Requires the customer PO file to be uploaded first.
// @Tags SalesOrders
// @Produce json
// @Param id path string true "Sales order ID"
// @Success 200 {object} domain.SalesOrderDTO
// @Failure 422 {object} domain.APIError "PO file missing"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders/{id}/submit [post]
func (h *SalesOrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.salesOrderService.Submit)
}

// Start godoc
// @Summary Start sales order
// @Tags SalesOrders
// @Produce json
// @Param id path string true "Sales order ID"
// @Success 200 {object} domain.SalesOrderDTO
// @Failure 409 {object} domain.APIError "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders/{id}/start [post]
func (h *SalesOrderHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.salesOrderService.Start)
}

// Cancel godoc
// @Summary Cancel sales order
// @Tags SalesOrders
// @Produce json
// @Param id path string true "Sales order ID"
// @Success 200 {object} domain.SalesOrderDTO
// @Failure 409 {object} domain.APIError "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.salesOrderService.Cancel)
}

// Complete godoc
// @Summary Complete sales order
// @Description Move an in-progress order to done and create its execution project. Both changes are atomic.
// @Tags SalesOrders
// @Produce json
// @Param id path string true "Sales order ID"
// @Success 200 {object} service.CompleteSalesOrderResult
// @Failure 409 {object} domain.APIError "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders/{id}/complete [post]
func (h *SalesOrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.salesOrderService.Complete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to complete sales order", zap.Error(err), zap.String("sales_order_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetProject godoc
// @Summary Get the project created from a sales order
// @Tags SalesOrders
// @Produce json
// @Param id path string true "Sales order ID"
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales-orders/{id}/project [get]
func (h *SalesOrderHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetBySalesOrderID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (h *SalesOrderHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*domain.SalesOrderDTO, error)) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	order, err := fn(r.Context(), id)
	if err != nil {
		h.logger.Error("sales order transition failed", zap.Error(err), zap.String("sales_order_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
