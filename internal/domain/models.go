package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key when the caller has not done so.
// IDs are generated application-side so records created inside an
// orchestrator call can reference each other before they are persisted.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer represents an organization the fabrication business sells to
type Customer struct {
	BaseModel
	Name          string         `gorm:"type:varchar(200);not null;index"`
	OrgNumber     string         `gorm:"type:varchar(20);unique;index"`
	Email         string         `gorm:"type:varchar(255);not null"`
	Phone         string         `gorm:"type:varchar(50);not null"`
	Address       string         `gorm:"type:varchar(500)"`
	City          string         `gorm:"type:varchar(100)"`
	PostalCode    string         `gorm:"type:varchar(20)"`
	Country       string         `gorm:"type:varchar(100);not null;default:'Norway'"`
	ContactPerson string         `gorm:"type:varchar(200)"`
	ContactEmail  string         `gorm:"type:varchar(255)"`
	ContactPhone  string         `gorm:"type:varchar(50)"`
	Status        CustomerStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	Quotations    []Quotation    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	SalesOrders   []SalesOrder   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Invoices      []Invoice      `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// DocumentType identifies which aggregate owns a polymorphic child row
// (line items and file attachments both hang off several document kinds).
type DocumentType string

const (
	DocumentTypeQuotation         DocumentType = "quotation"
	DocumentTypeSalesOrder        DocumentType = "sales_order"
	DocumentTypeInvoice           DocumentType = "invoice"
	DocumentTypeWorkOrderMaterial DocumentType = "work_order_material"
)

// LineItem represents one billable row inside a financial document.
// A line item is owned exclusively by its parent document: it is created
// and destroyed through the parent's edit operations and never shared.
// TaxAmount and Total are derived by the billing calculator and must never
// be edited independently.
type LineItem struct {
	BaseModel
	DocumentType   DocumentType    `gorm:"type:varchar(50);not null;index:idx_line_items_document;column:document_type"`
	DocumentID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_line_items_document;column:document_id"`
	Description    string          `gorm:"type:varchar(500);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(15,2);not null;column:unit_price"`
	TaxRatePercent decimal.Decimal `gorm:"type:decimal(5,2);not null;column:tax_rate_percent"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;column:tax_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DisplayOrder   int             `gorm:"not null;default:0;column:display_order"`
}

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// Quotation represents a priced offer to a customer
type Quotation struct {
	BaseModel
	Number       string          `gorm:"type:varchar(50);uniqueIndex"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Customer     *Customer       `gorm:"foreignKey:CustomerID"`
	CustomerName string          `gorm:"type:varchar(200);column:customer_name"`
	Title        string          `gorm:"type:varchar(200);not null"`
	ValidUntil   time.Time       `gorm:"type:date;not null;column:valid_until"`
	Status       QuotationStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;column:tax_amount"`
	Total        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Notes        string          `gorm:"type:text"`
	LineItems    []LineItem      `gorm:"polymorphic:Document;polymorphicValue:quotation;constraint:OnDelete:CASCADE"`
}

// SalesOrderStatus represents the lifecycle state of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusDraft      SalesOrderStatus = "draft"
	SalesOrderStatusPending    SalesOrderStatus = "pending"
	SalesOrderStatusInProgress SalesOrderStatus = "in_progress"
	SalesOrderStatusDone       SalesOrderStatus = "done"
	SalesOrderStatusCancelled  SalesOrderStatus = "cancelled"
)

// SalesOrder represents a confirmed customer order backed by a purchase order.
// A sales order cannot leave draft without an uploaded PO file, and once
// done or cancelled it can no longer be edited.
type SalesOrder struct {
	BaseModel
	Number           string           `gorm:"type:varchar(50);uniqueIndex"`
	CustomerID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	Customer         *Customer        `gorm:"foreignKey:CustomerID"`
	CustomerName     string           `gorm:"type:varchar(200);column:customer_name"`
	CustomerPONumber string           `gorm:"type:varchar(100);not null;column:customer_po_number"`
	DeliveryLocation string           `gorm:"type:varchar(500);not null;column:delivery_location"`
	POIssueDate      *time.Time       `gorm:"type:date;column:po_issue_date"`
	POFileID         *uuid.UUID       `gorm:"type:uuid;column:po_file_id"`
	POFile           *FileAttachment  `gorm:"foreignKey:POFileID"`
	QuotationID      *uuid.UUID       `gorm:"type:uuid;index;column:quotation_id"`
	Quotation        *Quotation       `gorm:"foreignKey:QuotationID"`
	ProjectID        *uuid.UUID       `gorm:"type:uuid;index;column:project_id"`
	Status           SalesOrderStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	Subtotal         decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	TaxAmount        decimal.Decimal  `gorm:"type:decimal(15,2);not null;column:tax_amount"`
	Total            decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	Notes            string           `gorm:"type:text"`
	LineItems        []LineItem       `gorm:"polymorphic:Document;polymorphicValue:sales_order;constraint:OnDelete:CASCADE"`
}

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// Project represents the execution of a completed sales order.
// Projects are created automatically when a sales order reaches done.
// Once the delivery note is signed the record is frozen: status is forced
// to completed and every further mutation is rejected.
type Project struct {
	BaseModel
	Number             string        `gorm:"type:varchar(50);uniqueIndex"`
	SalesOrderID       uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex;column:sales_order_id"`
	SalesOrder         *SalesOrder   `gorm:"foreignKey:SalesOrderID"`
	CustomerID         uuid.UUID     `gorm:"type:uuid;not null;index"`
	CustomerName       string        `gorm:"type:varchar(200);column:customer_name"`
	Name               string        `gorm:"type:varchar(200);not null"`
	DeliveryLocation   string        `gorm:"type:varchar(500);column:delivery_location"`
	CustomerPONumber   string        `gorm:"type:varchar(100);column:customer_po_number"`
	Status             ProjectStatus `gorm:"type:varchar(50);not null;default:'open';index"`
	DeliveryNoteSigned bool          `gorm:"not null;default:false;column:delivery_note_signed"`
	DeliveryNoteDate   *time.Time    `gorm:"column:delivery_note_date"`
	SignedBy           string        `gorm:"type:varchar(200);column:signed_by"`
	Notes              string        `gorm:"type:text"`
	WorkOrders         []WorkOrder   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// WorkOrderStatus represents the lifecycle state of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusPending    WorkOrderStatus = "pending"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusOnHold     WorkOrderStatus = "on_hold"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

// WorkOrder represents a unit of shop-floor or site work inside a project.
// Material requirements are line items (quantity x estimated unit cost);
// labor assignments carry their own hours x rate arithmetic.
type WorkOrder struct {
	BaseModel
	Number               string            `gorm:"type:varchar(50);uniqueIndex"`
	ProjectID            uuid.UUID         `gorm:"type:uuid;not null;index;column:project_id"`
	Project              *Project          `gorm:"foreignKey:ProjectID"`
	Title                string            `gorm:"type:varchar(200);not null"`
	Description          string            `gorm:"type:text"`
	Status               WorkOrderStatus   `gorm:"type:varchar(50);not null;default:'pending';index"`
	TotalMaterialCost    decimal.Decimal   `gorm:"type:decimal(15,2);not null;column:total_material_cost"`
	TotalLaborCost       decimal.Decimal   `gorm:"type:decimal(15,2);not null;column:total_labor_cost"`
	TotalEstimatedCost   decimal.Decimal   `gorm:"type:decimal(15,2);not null;column:total_estimated_cost"`
	MaterialRequirements []LineItem        `gorm:"polymorphic:Document;polymorphicValue:work_order_material;constraint:OnDelete:CASCADE"`
	LaborAssignments     []LaborAssignment `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE"`
}

// LaborAssignment represents one worker allocated to a work order
type LaborAssignment struct {
	BaseModel
	WorkOrderID    uuid.UUID       `gorm:"type:uuid;not null;index;column:work_order_id"`
	Worker         string          `gorm:"type:varchar(200);not null"`
	HoursAllocated decimal.Decimal `gorm:"type:decimal(10,2);not null;column:hours_allocated"`
	HourlyRate     decimal.Decimal `gorm:"type:decimal(10,2);not null;column:hourly_rate"`
	Cost           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// InvoiceType distinguishes preliminary billing from the final tax document
type InvoiceType string

const (
	InvoiceTypeProforma InvoiceType = "proforma"
	InvoiceTypeTax      InvoiceType = "tax"
)

// PaymentStatus is derived by the payment ledger, never set by a user.
// The overdue state is the one exception: it is applied by the scheduled
// sweep when a pending or partial invoice passes its due date.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Invoice represents a proforma or tax invoice issued against a customer.
// A tax invoice must reference a sales order in done status; payments made
// on linked proforma invoices offset its remaining balance.
type Invoice struct {
	BaseModel
	Number            string          `gorm:"type:varchar(50);uniqueIndex"`
	InvoiceType       InvoiceType     `gorm:"type:varchar(20);not null;index;column:invoice_type"`
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Customer          *Customer       `gorm:"foreignKey:CustomerID"`
	CustomerName      string          `gorm:"type:varchar(200);column:customer_name"`
	SalesOrderID      *uuid.UUID      `gorm:"type:uuid;index;column:sales_order_id"`
	SalesOrder        *SalesOrder     `gorm:"foreignKey:SalesOrderID"`
	LinkedProformaIDs pq.StringArray  `gorm:"type:text[];column:linked_proforma_ids"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null;column:tax_amount"`
	Total             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaymentReceived   decimal.Decimal `gorm:"type:decimal(15,2);not null;column:payment_received"`
	RemainingBalance  decimal.Decimal `gorm:"type:decimal(15,2);not null;column:remaining_balance"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index;column:payment_status"`
	QRCode            string          `gorm:"type:varchar(1000);column:qr_code"`
	IssueDate         time.Time       `gorm:"type:date;not null;column:issue_date"`
	DueDate           time.Time       `gorm:"type:date;not null;column:due_date"`
	Notes             string          `gorm:"type:text"`
	LineItems         []LineItem      `gorm:"polymorphic:Document;polymorphicValue:invoice;constraint:OnDelete:CASCADE"`
}

// Contractor represents an external subcontractor firm
type Contractor struct {
	BaseModel
	Name          string                 `gorm:"type:varchar(200);not null;index"`
	Trade         string                 `gorm:"type:varchar(100)"`
	OrgNumber     string                 `gorm:"type:varchar(20);index"`
	Email         string                 `gorm:"type:varchar(255)"`
	Phone         string                 `gorm:"type:varchar(50)"`
	ContactPerson string                 `gorm:"type:varchar(200)"`
	IsActive      bool                   `gorm:"not null;default:true;column:is_active"`
	Assignments   []ContractorAssignment `gorm:"foreignKey:ContractorID;constraint:OnDelete:CASCADE"`
}

// ContractorAssignmentStatus follows the assignment's payment ledger:
// pending until the first payment lands, completed when nothing is owed.
type ContractorAssignmentStatus string

const (
	ContractorAssignmentStatusPending    ContractorAssignmentStatus = "pending"
	ContractorAssignmentStatusInProgress ContractorAssignmentStatus = "in_progress"
	ContractorAssignmentStatusCompleted  ContractorAssignmentStatus = "completed"
)

// ContractorAssignment represents a contractor engaged on a project for a
// fixed contract value, with payments tracked through the same ledger
// arithmetic as invoices.
type ContractorAssignment struct {
	BaseModel
	ContractorID  uuid.UUID                  `gorm:"type:uuid;not null;index;column:contractor_id"`
	Contractor    *Contractor                `gorm:"foreignKey:ContractorID"`
	ProjectID     uuid.UUID                  `gorm:"type:uuid;not null;index;column:project_id"`
	Project       *Project                   `gorm:"foreignKey:ProjectID"`
	Description   string                     `gorm:"type:varchar(500)"`
	ContractValue decimal.Decimal            `gorm:"type:decimal(15,2);not null;column:contract_value"`
	AmountPaid    decimal.Decimal            `gorm:"type:decimal(15,2);not null;column:amount_paid"`
	PendingAmount decimal.Decimal            `gorm:"type:decimal(15,2);not null;column:pending_amount"`
	Status        ContractorAssignmentStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	Payments      []ContractorPayment        `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
}

// ContractorPayment is one recorded payment against an assignment.
// Individual rows are kept so the ledger history survives corrections.
type ContractorPayment struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	AssignmentID uuid.UUID       `gorm:"type:uuid;not null;index;column:assignment_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Reference    string          `gorm:"type:varchar(200)"`
	PaidAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;column:paid_at"`
	RecordedBy   string          `gorm:"type:varchar(200);column:recorded_by"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (p *ContractorPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FileAttachment represents an uploaded file (PO documents, drawings).
// Only metadata is visible to the billing/workflow engine; contents live
// in blob or local storage behind the storage interface.
type FileAttachment struct {
	BaseModel
	Filename     string       `gorm:"type:varchar(255);not null"`
	ContentType  string       `gorm:"type:varchar(100);not null"`
	Size         int64        `gorm:"not null"`
	StoragePath  string       `gorm:"type:varchar(500);not null;unique"`
	DocumentType DocumentType `gorm:"type:varchar(50);index:idx_file_attachments_document;column:document_type"`
	DocumentID   *uuid.UUID   `gorm:"type:uuid;index:idx_file_attachments_document;column:document_id"`
	UploadedBy   string       `gorm:"type:varchar(200);column:uploaded_by"`
}

// NumberSequence backs document number generation (one counter per
// document prefix per year).
type NumberSequence struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Prefix    string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_number_sequences_prefix_year"`
	Year      int       `gorm:"not null;uniqueIndex:idx_number_sequences_prefix_year"`
	Value     int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (s *NumberSequence) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
