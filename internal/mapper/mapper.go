// Package mapper converts gorm models into API response DTOs.
package mapper

import (
	"time"

	"github.com/fabrikk-as/console-api/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ToCustomerDTO converts a customer model to its response DTO
func ToCustomerDTO(c *domain.Customer) domain.CustomerDTO {
	return domain.CustomerDTO{
		ID:            c.ID,
		Name:          c.Name,
		OrgNumber:     c.OrgNumber,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		City:          c.City,
		PostalCode:    c.PostalCode,
		Country:       c.Country,
		ContactPerson: c.ContactPerson,
		ContactEmail:  c.ContactEmail,
		ContactPhone:  c.ContactPhone,
		Status:        c.Status,
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatTime(c.UpdatedAt),
	}
}

// ToLineItemDTOs converts line items, preserving display order
func ToLineItemDTOs(items []domain.LineItem) []domain.LineItemDTO {
	dtos := make([]domain.LineItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, domain.LineItemDTO{
			ID:             item.ID,
			Description:    item.Description,
			Quantity:       item.Quantity.String(),
			UnitPrice:      item.UnitPrice.StringFixed(2),
			TaxRatePercent: item.TaxRatePercent.String(),
			TaxAmount:      item.TaxAmount.StringFixed(2),
			Total:          item.Total.StringFixed(2),
			DisplayOrder:   item.DisplayOrder,
		})
	}
	return dtos
}

// ToQuotationDTO converts a quotation model to its response DTO
func ToQuotationDTO(q *domain.Quotation) domain.QuotationDTO {
	dto := domain.QuotationDTO{
		ID:           q.ID,
		Number:       q.Number,
		CustomerID:   q.CustomerID,
		CustomerName: q.CustomerName,
		Title:        q.Title,
		ValidUntil:   formatDate(q.ValidUntil),
		Status:       q.Status,
		Subtotal:     q.Subtotal.StringFixed(2),
		TaxAmount:    q.TaxAmount.StringFixed(2),
		Total:        q.Total.StringFixed(2),
		Notes:        q.Notes,
		LineItems:    ToLineItemDTOs(q.LineItems),
		CreatedAt:    formatTime(q.CreatedAt),
		UpdatedAt:    formatTime(q.UpdatedAt),
	}
	if q.Customer != nil {
		dto.CustomerName = q.Customer.Name
	}
	return dto
}

// ToSalesOrderDTO converts a sales order model to its response DTO
func ToSalesOrderDTO(so *domain.SalesOrder) domain.SalesOrderDTO {
	dto := domain.SalesOrderDTO{
		ID:               so.ID,
		Number:           so.Number,
		CustomerID:       so.CustomerID,
		CustomerName:     so.CustomerName,
		CustomerPONumber: so.CustomerPONumber,
		DeliveryLocation: so.DeliveryLocation,
		POFileID:         so.POFileID,
		QuotationID:      so.QuotationID,
		ProjectID:        so.ProjectID,
		Status:           so.Status,
		Subtotal:         so.Subtotal.StringFixed(2),
		TaxAmount:        so.TaxAmount.StringFixed(2),
		Total:            so.Total.StringFixed(2),
		Notes:            so.Notes,
		LineItems:        ToLineItemDTOs(so.LineItems),
		CreatedAt:        formatTime(so.CreatedAt),
		UpdatedAt:        formatTime(so.UpdatedAt),
	}
	if so.POIssueDate != nil {
		s := formatDate(*so.POIssueDate)
		dto.POIssueDate = &s
	}
	if so.Customer != nil {
		dto.CustomerName = so.Customer.Name
	}
	return dto
}

// ToProjectDTO converts a project model to its response DTO
func ToProjectDTO(p *domain.Project) domain.ProjectDTO {
	return domain.ProjectDTO{
		ID:                 p.ID,
		Number:             p.Number,
		SalesOrderID:       p.SalesOrderID,
		CustomerID:         p.CustomerID,
		CustomerName:       p.CustomerName,
		Name:               p.Name,
		DeliveryLocation:   p.DeliveryLocation,
		CustomerPONumber:   p.CustomerPONumber,
		Status:             p.Status,
		DeliveryNoteSigned: p.DeliveryNoteSigned,
		DeliveryNoteDate:   formatTimePtr(p.DeliveryNoteDate),
		SignedBy:           p.SignedBy,
		Notes:              p.Notes,
		CreatedAt:          formatTime(p.CreatedAt),
		UpdatedAt:          formatTime(p.UpdatedAt),
	}
}

// ToWorkOrderDTO converts a work order model to its response DTO
func ToWorkOrderDTO(wo *domain.WorkOrder) domain.WorkOrderDTO {
	labor := make([]domain.LaborAssignmentDTO, 0, len(wo.LaborAssignments))
	for _, la := range wo.LaborAssignments {
		labor = append(labor, domain.LaborAssignmentDTO{
			ID:             la.ID,
			Worker:         la.Worker,
			HoursAllocated: la.HoursAllocated.String(),
			HourlyRate:     la.HourlyRate.StringFixed(2),
			Cost:           la.Cost.StringFixed(2),
		})
	}
	return domain.WorkOrderDTO{
		ID:                   wo.ID,
		Number:               wo.Number,
		ProjectID:            wo.ProjectID,
		Title:                wo.Title,
		Description:          wo.Description,
		Status:               wo.Status,
		TotalMaterialCost:    wo.TotalMaterialCost.StringFixed(2),
		TotalLaborCost:       wo.TotalLaborCost.StringFixed(2),
		TotalEstimatedCost:   wo.TotalEstimatedCost.StringFixed(2),
		MaterialRequirements: ToLineItemDTOs(wo.MaterialRequirements),
		LaborAssignments:     labor,
		CreatedAt:            formatTime(wo.CreatedAt),
		UpdatedAt:            formatTime(wo.UpdatedAt),
	}
}

// ToInvoiceDTO converts an invoice model to its response DTO
func ToInvoiceDTO(inv *domain.Invoice) domain.InvoiceDTO {
	dto := domain.InvoiceDTO{
		ID:                inv.ID,
		Number:            inv.Number,
		InvoiceType:       inv.InvoiceType,
		CustomerID:        inv.CustomerID,
		CustomerName:      inv.CustomerName,
		SalesOrderID:      inv.SalesOrderID,
		LinkedProformaIDs: inv.LinkedProformaIDs,
		Subtotal:          inv.Subtotal.StringFixed(2),
		TaxAmount:         inv.TaxAmount.StringFixed(2),
		Total:             inv.Total.StringFixed(2),
		PaymentReceived:   inv.PaymentReceived.StringFixed(2),
		RemainingBalance:  inv.RemainingBalance.StringFixed(2),
		PaymentStatus:     inv.PaymentStatus,
		QRCode:            inv.QRCode,
		IssueDate:         formatDate(inv.IssueDate),
		DueDate:           formatDate(inv.DueDate),
		Notes:             inv.Notes,
		LineItems:         ToLineItemDTOs(inv.LineItems),
		CreatedAt:         formatTime(inv.CreatedAt),
		UpdatedAt:         formatTime(inv.UpdatedAt),
	}
	if inv.Customer != nil {
		dto.CustomerName = inv.Customer.Name
	}
	return dto
}

// ToContractorDTO converts a contractor model to its response DTO
func ToContractorDTO(c *domain.Contractor) domain.ContractorDTO {
	return domain.ContractorDTO{
		ID:            c.ID,
		Name:          c.Name,
		Trade:         c.Trade,
		OrgNumber:     c.OrgNumber,
		Email:         c.Email,
		Phone:         c.Phone,
		ContactPerson: c.ContactPerson,
		IsActive:      c.IsActive,
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatTime(c.UpdatedAt),
	}
}

// ToContractorAssignmentDTO converts an assignment model to its response DTO
func ToContractorAssignmentDTO(a *domain.ContractorAssignment) domain.ContractorAssignmentDTO {
	payments := make([]domain.ContractorPaymentDTO, 0, len(a.Payments))
	for _, p := range a.Payments {
		payments = append(payments, domain.ContractorPaymentDTO{
			ID:         p.ID,
			Amount:     p.Amount.StringFixed(2),
			Reference:  p.Reference,
			PaidAt:     formatTime(p.PaidAt),
			RecordedBy: p.RecordedBy,
		})
	}
	dto := domain.ContractorAssignmentDTO{
		ID:            a.ID,
		ContractorID:  a.ContractorID,
		ProjectID:     a.ProjectID,
		Description:   a.Description,
		ContractValue: a.ContractValue.StringFixed(2),
		AmountPaid:    a.AmountPaid.StringFixed(2),
		PendingAmount: a.PendingAmount.StringFixed(2),
		Status:        a.Status,
		Payments:      payments,
		CreatedAt:     formatTime(a.CreatedAt),
		UpdatedAt:     formatTime(a.UpdatedAt),
	}
	if a.Contractor != nil {
		dto.ContractorName = a.Contractor.Name
	}
	return dto
}

// ToFileAttachmentDTO converts a file attachment model to its response DTO
func ToFileAttachmentDTO(f *domain.FileAttachment) domain.FileAttachmentDTO {
	return domain.FileAttachmentDTO{
		ID:           f.ID,
		Filename:     f.Filename,
		ContentType:  f.ContentType,
		Size:         f.Size,
		DocumentType: f.DocumentType,
		DocumentID:   f.DocumentID,
		UploadedBy:   f.UploadedBy,
		CreatedAt:    formatTime(f.CreatedAt),
	}
}
