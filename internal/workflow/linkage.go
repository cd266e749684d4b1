package workflow

import (
	"github.com/fabrikk-as/console-api/internal/domain"
)

// ValidateTaxInvoiceLinkage checks the references a tax invoice carries.
// The sales order must exist and be done; every linked proforma must exist,
// be of proforma type, and belong to the same sales order. Callers load the
// referenced records and pass them in; a nil salesOrder means the reference
// did not resolve.
func ValidateTaxInvoiceLinkage(salesOrder *domain.SalesOrder, linkedProformas []domain.Invoice, linkedIDs []string) error {
	if salesOrder == nil || salesOrder.Status != domain.SalesOrderStatusDone {
		return &LinkageError{Message: "tax invoice requires a completed sales order"}
	}

	byID := make(map[string]*domain.Invoice, len(linkedProformas))
	for i := range linkedProformas {
		byID[linkedProformas[i].ID.String()] = &linkedProformas[i]
	}
	for _, id := range linkedIDs {
		proforma, ok := byID[id]
		if !ok || proforma.InvoiceType != domain.InvoiceTypeProforma {
			return &LinkageError{Message: "linked proforma invoice not found or mismatched order"}
		}
		if proforma.SalesOrderID == nil || *proforma.SalesOrderID != salesOrder.ID {
			return &LinkageError{Message: "linked proforma invoice not found or mismatched order"}
		}
	}
	return nil
}

// ValidatePOFilePresent enforces that a sales order carries an uploaded
// purchase order file before it leaves draft
func ValidatePOFilePresent(order *domain.SalesOrder, to domain.SalesOrderStatus) error {
	if order.Status != domain.SalesOrderStatusDraft {
		return nil
	}
	if to == domain.SalesOrderStatusDraft || to == domain.SalesOrderStatusCancelled {
		return nil
	}
	if order.POFileID == nil {
		return &LinkageError{Message: "purchase order file must be uploaded before the order leaves draft"}
	}
	return nil
}

// ValidateProjectMutable rejects every write to a project whose delivery
// note has been signed
func ValidateProjectMutable(project *domain.Project) error {
	if project.DeliveryNoteSigned {
		return &LockedError{Message: "project is finalized"}
	}
	return nil
}

// ValidateSalesOrderEditable rejects edits to orders in a terminal state
func ValidateSalesOrderEditable(order *domain.SalesOrder) error {
	if IsTerminal(KindSalesOrder, string(order.Status)) {
		return &LockedError{Message: "sales order can no longer be edited"}
	}
	return nil
}
