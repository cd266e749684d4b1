package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	logger          *zap.Logger
}

func NewCustomerHandler(customerService *service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, logger: logger}
}

// List godoc
// @Summary List customers
// @Description Get paginated list of customers with optional status filter
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(active, inactive)
// @Success 200 {object} domain.ListResponse[domain.CustomerDTO]
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	var status *domain.CustomerStatus
	if s := r.URL.Query().Get("status"); s != "" {
		cs := domain.CustomerStatus(s)
		status = &cs
	}

	result, err := h.customerService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list customers", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Search godoc
// @Summary Search customers
// @Description Search customers by name or organization number
// @Tags Customers
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {array} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/search [get]
func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	result, err := h.customerService.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("failed to search customers", zap.Error(err), zap.String("query", query))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body domain.CreateCustomerRequest true "Customer data"
// @Success 201 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create customer", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, customer)
}

// GetByID godoc
// @Summary Get customer by ID
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} domain.CustomerDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// Update godoc
// @Summary Update customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body domain.CreateCustomerRequest true "Customer data"
// @Success 200 {object} domain.CustomerDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateCustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update customer", zap.Error(err), zap.String("customer_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}
