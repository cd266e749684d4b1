package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrCustomerNotFound is returned when the referenced customer does not exist
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrQuotationNotFound is returned when a quotation is not found
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrSalesOrderNotFound is returned when a sales order is not found
	ErrSalesOrderNotFound = errors.New("sales order not found")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrWorkOrderNotFound is returned when a work order is not found
	ErrWorkOrderNotFound = errors.New("work order not found")

	// ErrInvoiceNotFound is returned when an invoice is not found
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrContractorNotFound is returned when a contractor is not found
	ErrContractorNotFound = errors.New("contractor not found")

	// ErrAssignmentNotFound is returned when a contractor assignment is not found
	ErrAssignmentNotFound = errors.New("contractor assignment not found")

	// ErrFileNotFound is returned when a file attachment is not found
	ErrFileNotFound = errors.New("file not found")

	// ErrQuotationNotEditable is returned when editing a quotation past draft
	ErrQuotationNotEditable = errors.New("quotation can only be edited in draft")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")
)
