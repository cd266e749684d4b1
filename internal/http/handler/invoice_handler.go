package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, logger: logger}
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param customerId query string false "Filter by customer"
// @Param invoiceType query string false "Filter by type" Enums(proforma, tax)
// @Param paymentStatus query string false "Filter by payment status" Enums(pending, partial, paid, overdue)
// @Success 200 {object} domain.ListResponse[domain.InvoiceDTO]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	customerID := queryUUID(r, "customerId")

	var invoiceType *domain.InvoiceType
	if t := r.URL.Query().Get("invoiceType"); t != "" {
		it := domain.InvoiceType(t)
		invoiceType = &it
	}
	var paymentStatus *domain.PaymentStatus
	if s := r.URL.Query().Get("paymentStatus"); s != "" {
		ps := domain.PaymentStatus(s)
		paymentStatus = &ps
	}

	result, err := h.invoiceService.List(r.Context(), page, pageSize, customerID, invoiceType, paymentStatus)
	if err != nil {
		h.logger.Error("failed to list invoices", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create invoice
// @Description Issue a proforma or tax invoice against a sales order. A tax invoice requires the
// order to be done and absorbs the payments of the proformas it references.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body domain.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} domain.InvoiceDTO
// @Failure 422 {object} domain.APIError "Validation or linkage failure"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create invoice", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, invoice)
}

// GetByID godoc
// @Summary Get invoice by ID
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// RecordPayment godoc
// @Summary Record invoice payment
// @Description Register a received payment and recompute the outstanding balance
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body domain.RecordPaymentRequest true "Payment data"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 422 {object} domain.APIError "Invalid amount"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.RecordPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.RecordPayment(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to record invoice payment", zap.Error(err), zap.String("invoice_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}
