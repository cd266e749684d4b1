package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs for API responses. Dates are ISO 8601 strings; monetary amounts
// are fixed two-decimal strings produced by the mapper.

type CustomerDTO struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	OrgNumber     string         `json:"orgNumber"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address,omitempty"`
	City          string         `json:"city,omitempty"`
	PostalCode    string         `json:"postalCode,omitempty"`
	Country       string         `json:"country"`
	ContactPerson string         `json:"contactPerson,omitempty"`
	ContactEmail  string         `json:"contactEmail,omitempty"`
	ContactPhone  string         `json:"contactPhone,omitempty"`
	Status        CustomerStatus `json:"status"`
	CreatedAt     string         `json:"createdAt"` // ISO 8601
	UpdatedAt     string         `json:"updatedAt"` // ISO 8601
}

type LineItemDTO struct {
	ID             uuid.UUID `json:"id"`
	Description    string    `json:"description"`
	Quantity       string    `json:"quantity"`
	UnitPrice      string    `json:"unitPrice"`
	TaxRatePercent string    `json:"taxRatePercent"`
	TaxAmount      string    `json:"taxAmount"`
	Total          string    `json:"total"`
	DisplayOrder   int       `json:"displayOrder"`
}

type QuotationDTO struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number,omitempty"`
	CustomerID   uuid.UUID       `json:"customerId"`
	CustomerName string          `json:"customerName,omitempty"`
	Title        string          `json:"title"`
	ValidUntil   string          `json:"validUntil"` // ISO 8601
	Status       QuotationStatus `json:"status"`
	Subtotal     string          `json:"subtotal"`
	TaxAmount    string          `json:"taxAmount"`
	Total        string          `json:"total"`
	Notes        string          `json:"notes,omitempty"`
	LineItems    []LineItemDTO   `json:"lineItems"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
}

type SalesOrderDTO struct {
	ID               uuid.UUID        `json:"id"`
	Number           string           `json:"number,omitempty"`
	CustomerID       uuid.UUID        `json:"customerId"`
	CustomerName     string           `json:"customerName,omitempty"`
	CustomerPONumber string           `json:"customerPONumber"`
	DeliveryLocation string           `json:"deliveryLocation"`
	POIssueDate      *string          `json:"poIssueDate,omitempty"`
	POFileID         *uuid.UUID       `json:"poFileId,omitempty"`
	QuotationID      *uuid.UUID       `json:"quotationId,omitempty"`
	ProjectID        *uuid.UUID       `json:"projectId,omitempty"`
	Status           SalesOrderStatus `json:"status"`
	Subtotal         string           `json:"subtotal"`
	TaxAmount        string           `json:"taxAmount"`
	Total            string           `json:"total"`
	Notes            string           `json:"notes,omitempty"`
	LineItems        []LineItemDTO    `json:"lineItems"`
	CreatedAt        string           `json:"createdAt"`
	UpdatedAt        string           `json:"updatedAt"`
}

type ProjectDTO struct {
	ID                 uuid.UUID     `json:"id"`
	Number             string        `json:"number,omitempty"`
	SalesOrderID       uuid.UUID     `json:"salesOrderId"`
	CustomerID         uuid.UUID     `json:"customerId"`
	CustomerName       string        `json:"customerName,omitempty"`
	Name               string        `json:"name"`
	DeliveryLocation   string        `json:"deliveryLocation,omitempty"`
	CustomerPONumber   string        `json:"customerPONumber,omitempty"`
	Status             ProjectStatus `json:"status"`
	DeliveryNoteSigned bool          `json:"deliveryNoteSigned"`
	DeliveryNoteDate   *string       `json:"deliveryNoteDate,omitempty"`
	SignedBy           string        `json:"signedBy,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	CreatedAt          string        `json:"createdAt"`
	UpdatedAt          string        `json:"updatedAt"`
}

type LaborAssignmentDTO struct {
	ID             uuid.UUID `json:"id"`
	Worker         string    `json:"worker"`
	HoursAllocated string    `json:"hoursAllocated"`
	HourlyRate     string    `json:"hourlyRate"`
	Cost           string    `json:"cost"`
}

type WorkOrderDTO struct {
	ID                   uuid.UUID            `json:"id"`
	Number               string               `json:"number,omitempty"`
	ProjectID            uuid.UUID            `json:"projectId"`
	Title                string               `json:"title"`
	Description          string               `json:"description,omitempty"`
	Status               WorkOrderStatus      `json:"status"`
	TotalMaterialCost    string               `json:"totalMaterialCost"`
	TotalLaborCost       string               `json:"totalLaborCost"`
	TotalEstimatedCost   string               `json:"totalEstimatedCost"`
	MaterialRequirements []LineItemDTO        `json:"materialRequirements"`
	LaborAssignments     []LaborAssignmentDTO `json:"laborAssignments"`
	CreatedAt            string               `json:"createdAt"`
	UpdatedAt            string               `json:"updatedAt"`
}

type InvoiceDTO struct {
	ID                uuid.UUID     `json:"id"`
	Number            string        `json:"number,omitempty"`
	InvoiceType       InvoiceType   `json:"invoiceType"`
	CustomerID        uuid.UUID     `json:"customerId"`
	CustomerName      string        `json:"customerName,omitempty"`
	SalesOrderID      *uuid.UUID    `json:"salesOrderId,omitempty"`
	LinkedProformaIDs []string      `json:"linkedProformaIds,omitempty"`
	Subtotal          string        `json:"subtotal"`
	TaxAmount         string        `json:"taxAmount"`
	Total             string        `json:"total"`
	PaymentReceived   string        `json:"paymentReceived"`
	RemainingBalance  string        `json:"remainingBalance"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	QRCode            string        `json:"qrCode,omitempty"`
	IssueDate         string        `json:"issueDate"`
	DueDate           string        `json:"dueDate"`
	Notes             string        `json:"notes,omitempty"`
	LineItems         []LineItemDTO `json:"lineItems"`
	// Overpaid indicates the last recorded payment exceeded the balance
	Overpaid  bool   `json:"overpaid,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type ContractorDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Trade         string    `json:"trade,omitempty"`
	OrgNumber     string    `json:"orgNumber,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

type ContractorAssignmentDTO struct {
	ID             uuid.UUID                  `json:"id"`
	ContractorID   uuid.UUID                  `json:"contractorId"`
	ContractorName string                     `json:"contractorName,omitempty"`
	ProjectID      uuid.UUID                  `json:"projectId"`
	Description    string                     `json:"description,omitempty"`
	ContractValue  string                     `json:"contractValue"`
	AmountPaid     string                     `json:"amountPaid"`
	PendingAmount  string                     `json:"pendingAmount"`
	Status         ContractorAssignmentStatus `json:"status"`
	Payments       []ContractorPaymentDTO     `json:"payments,omitempty"`
	// Overpaid indicates the last recorded payment exceeded the pending amount
	Overpaid  bool   `json:"overpaid,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type ContractorPaymentDTO struct {
	ID         uuid.UUID `json:"id"`
	Amount     string    `json:"amount"`
	Reference  string    `json:"reference,omitempty"`
	PaidAt     string    `json:"paidAt"`
	RecordedBy string    `json:"recordedBy,omitempty"`
}

type FileAttachmentDTO struct {
	ID           uuid.UUID    `json:"id"`
	Filename     string       `json:"filename"`
	ContentType  string       `json:"contentType"`
	Size         int64        `json:"size"`
	DocumentType DocumentType `json:"documentType,omitempty"`
	DocumentID   *uuid.UUID   `json:"documentId,omitempty"`
	UploadedBy   string       `json:"uploadedBy,omitempty"`
	CreatedAt    string       `json:"createdAt"`
}

// Request DTOs

type CreateCustomerRequest struct {
	Name          string         `json:"name" validate:"required,max=200"`
	OrgNumber     string         `json:"orgNumber" validate:"required,max=20"`
	Email         string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string         `json:"phone,omitempty" validate:"max=50"`
	Address       string         `json:"address,omitempty" validate:"max=500"`
	City          string         `json:"city,omitempty" validate:"max=100"`
	PostalCode    string         `json:"postalCode,omitempty" validate:"max=20"`
	Country       string         `json:"country,omitempty" validate:"max=100"`
	ContactPerson string         `json:"contactPerson,omitempty" validate:"max=200"`
	ContactEmail  string         `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone  string         `json:"contactPhone,omitempty" validate:"max=50"`
	Status        CustomerStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type LineItemRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	// TaxRatePercent falls back to the configured default when omitted
	TaxRatePercent *decimal.Decimal `json:"taxRatePercent,omitempty"`
}

type CreateQuotationRequest struct {
	CustomerID uuid.UUID         `json:"customerId" validate:"required"`
	Title      string            `json:"title" validate:"required,max=200"`
	ValidUntil string            `json:"validUntil" validate:"required"` // ISO 8601 date
	Notes      string            `json:"notes,omitempty"`
	LineItems  []LineItemRequest `json:"lineItems" validate:"required,min=1,dive"`
}

type UpdateQuotationRequest struct {
	Title      string            `json:"title" validate:"required,max=200"`
	ValidUntil string            `json:"validUntil" validate:"required"`
	Notes      string            `json:"notes,omitempty"`
	LineItems  []LineItemRequest `json:"lineItems" validate:"required,min=1,dive"`
}

type CreateSalesOrderRequest struct {
	CustomerID       uuid.UUID         `json:"customerId" validate:"required"`
	CustomerPONumber string            `json:"customerPONumber" validate:"required,max=100"`
	DeliveryLocation string            `json:"deliveryLocation" validate:"required,max=500"`
	POIssueDate      *string           `json:"poIssueDate,omitempty"` // ISO 8601 date
	POFileID         *uuid.UUID        `json:"poFileId,omitempty"`
	QuotationID      *uuid.UUID        `json:"quotationId,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	LineItems        []LineItemRequest `json:"lineItems" validate:"required,min=1,dive"`
}

type UpdateSalesOrderRequest struct {
	CustomerPONumber string            `json:"customerPONumber" validate:"required,max=100"`
	DeliveryLocation string            `json:"deliveryLocation" validate:"required,max=500"`
	POIssueDate      *string           `json:"poIssueDate,omitempty"`
	POFileID         *uuid.UUID        `json:"poFileId,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	LineItems        []LineItemRequest `json:"lineItems" validate:"required,min=1,dive"`
}

type UpdateProjectRequest struct {
	Name   string        `json:"name" validate:"required,max=200"`
	Status ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=open in_progress on_hold completed cancelled"`
	Notes  string        `json:"notes,omitempty"`
}

type SignDeliveryNoteRequest struct {
	SignedBy string `json:"signedBy" validate:"required,max=200"`
}

type LaborAssignmentRequest struct {
	Worker         string          `json:"worker" validate:"required,max=200"`
	HoursAllocated decimal.Decimal `json:"hoursAllocated"`
	HourlyRate     decimal.Decimal `json:"hourlyRate"`
}

type CreateWorkOrderRequest struct {
	ProjectID            uuid.UUID                `json:"projectId" validate:"required"`
	Title                string                   `json:"title" validate:"required,max=200"`
	Description          string                   `json:"description,omitempty"`
	MaterialRequirements []LineItemRequest        `json:"materialRequirements,omitempty" validate:"omitempty,dive"`
	LaborAssignments     []LaborAssignmentRequest `json:"laborAssignments,omitempty" validate:"omitempty,dive"`
}

type UpdateWorkOrderRequest struct {
	Title                string                   `json:"title" validate:"required,max=200"`
	Description          string                   `json:"description,omitempty"`
	MaterialRequirements []LineItemRequest        `json:"materialRequirements,omitempty" validate:"omitempty,dive"`
	LaborAssignments     []LaborAssignmentRequest `json:"laborAssignments,omitempty" validate:"omitempty,dive"`
}

type CreateInvoiceRequest struct {
	InvoiceType       InvoiceType       `json:"invoiceType" validate:"required,oneof=proforma tax"`
	CustomerID        uuid.UUID         `json:"customerId" validate:"required"`
	SalesOrderID      *uuid.UUID        `json:"salesOrderId,omitempty"`
	LinkedProformaIDs []string          `json:"linkedProformaIds,omitempty" validate:"omitempty,dive,uuid"`
	IssueDate         *string           `json:"issueDate,omitempty"` // ISO 8601 date
	DueDate           *string           `json:"dueDate,omitempty"`   // ISO 8601 date
	Notes             string            `json:"notes,omitempty"`
	LineItems         []LineItemRequest `json:"lineItems" validate:"required,min=1,dive"`
}

type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty" validate:"max=200"`
}

type CreateContractorRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Trade         string `json:"trade,omitempty" validate:"max=100"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
}

type CreateContractorAssignmentRequest struct {
	ContractorID  uuid.UUID       `json:"contractorId" validate:"required"`
	ProjectID     uuid.UUID       `json:"projectId" validate:"required"`
	Description   string          `json:"description,omitempty" validate:"max=500"`
	ContractValue decimal.Decimal `json:"contractValue"`
}

// TransitionRequest carries a requested status change
type TransitionRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

// ListResponse wraps paginated collection responses
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}
