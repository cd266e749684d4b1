package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService, logger: logger}
}

// List godoc
// @Summary List quotations
// @Tags Quotations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param customerId query string false "Filter by customer"
// @Param status query string false "Filter by status" Enums(draft, sent, accepted, rejected)
// @Success 200 {object} domain.ListResponse[domain.QuotationDTO]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	customerID := queryUUID(r, "customerId")

	var status *domain.QuotationStatus
	if s := r.URL.Query().Get("status"); s != "" {
		qs := domain.QuotationStatus(s)
		status = &qs
	}

	result, err := h.quotationService.List(r.Context(), page, pageSize, customerID, status)
	if err != nil {
		h.logger.Error("failed to list quotations", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create quotation
// @Description Create a draft quotation. Line item amounts and document totals are computed server-side.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} domain.QuotationDTO
// @Failure 422 {object} domain.APIError "Validation failed"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations [post]
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create quotation", zap.Error(err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, quotation)
}

// GetByID godoc
// @Summary Get quotation by ID
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Update godoc
// @Summary Update quotation
// @Description Replace a draft quotation's fields and line items. Non-draft quotations reject edits.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.UpdateQuotationRequest true "Quotation data"
// @Success 200 {object} domain.QuotationDTO
// @Failure 409 {object} domain.APIError "Quotation is not editable"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Issue godoc
// @Summary Issue quotation
// @Description Move a draft quotation to sent and assign its document number
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 409 {object} domain.APIError "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/issue [post]
func (h *QuotationHandler) Issue(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.quotationService.Issue)
}

// Accept godoc
// @Summary Accept quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 409 {object} domain.APIError "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/accept [post]
func (h *QuotationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.quotationService.Accept)
}

// Reject godoc
// @Summary Reject quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 409 {object} domain.APIError "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/reject [post]
func (h *QuotationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.quotationService.Reject)
}

// Delete godoc
// @Summary Delete quotation
// @Description Delete a draft quotation. Issued quotations cannot be deleted.
// @Tags Quotations
// @Param id path string true "Quotation ID"
// @Success 204
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete quotation", zap.Error(err), zap.String("quotation_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *QuotationHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*domain.QuotationDTO, error)) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	quotation, err := fn(r.Context(), id)
	if err != nil {
		h.logger.Error("quotation transition failed", zap.Error(err), zap.String("quotation_id", id.String()))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}
