package service_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/repository"
	"github.com/fabrikk-as/console-api/internal/service"
	"github.com/fabrikk-as/console-api/internal/workflow"
	"github.com/fabrikk-as/console-api/tests/testutil"
)

// testStack wires the full service layer over an in-memory database
type testStack struct {
	db          *gorm.DB
	customers   *service.CustomerService
	quotations  *service.QuotationService
	salesOrders *service.SalesOrderService
	projects    *service.ProjectService
	workOrders  *service.WorkOrderService
	invoices    *service.InvoiceService
	contractors *service.ContractorService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	orch := workflow.NewOrchestrator(workflow.Config{
		SellerName:            "Fabrikk AS",
		SellerTaxNumber:       "999888777",
		DefaultTaxRatePercent: decimal.NewFromInt(15),
		DueDateOffsetDays:     30,
	})

	customerRepo := repository.NewCustomerRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	contractorRepo := repository.NewContractorRepository(db)
	fileRepo := repository.NewFileRepository(db)
	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)

	return &testStack{
		db:          db,
		customers:   service.NewCustomerService(customerRepo, logger),
		quotations:  service.NewQuotationService(db, quotationRepo, customerRepo, orch, numbers, logger),
		salesOrders: service.NewSalesOrderService(db, salesOrderRepo, customerRepo, fileRepo, orch, numbers, logger),
		projects:    service.NewProjectService(projectRepo, orch, logger),
		workOrders:  service.NewWorkOrderService(db, workOrderRepo, projectRepo, orch, numbers, logger),
		invoices:    service.NewInvoiceService(invoiceRepo, customerRepo, salesOrderRepo, orch, numbers, logger),
		contractors: service.NewContractorService(db, contractorRepo, projectRepo, orch, logger),
	}
}

var poFileCounter atomic.Int64

func createPOFile(t *testing.T, db *gorm.DB) *domain.FileAttachment {
	t.Helper()

	file := &domain.FileAttachment{
		Filename:    "po.pdf",
		ContentType: "application/pdf",
		Size:        1024,
		StoragePath: fmt.Sprintf("aa/bb/%s-%d.pdf", t.Name(), poFileCounter.Add(1)),
	}
	require.NoError(t, db.Create(file).Error)
	return file
}

func lines(rows ...domain.LineItemRequest) []domain.LineItemRequest {
	return rows
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func line(description string, quantity, unitPrice float64) domain.LineItemRequest {
	return domain.LineItemRequest{
		Description: description,
		Quantity:    decimal.NewFromFloat(quantity),
		UnitPrice:   decimal.NewFromFloat(unitPrice),
	}
}

// createDoneSalesOrder walks an order through draft, pending, in_progress
// and done, returning the completion result
func createDoneSalesOrder(t *testing.T, stack *testStack, customer *domain.Customer) *service.CompleteSalesOrderResult {
	t.Helper()
	ctx := context.Background()

	poFile := createPOFile(t, stack.db)
	order, err := stack.salesOrders.Create(ctx, &domain.CreateSalesOrderRequest{
		CustomerID:       customer.ID,
		CustomerPONumber: "PO-4711",
		DeliveryLocation: "Industriveien 4, Drammen",
		POFileID:         &poFile.ID,
		LineItems:        lines(line("Steel frame assembly", 1, 50000)),
	})
	require.NoError(t, err)

	_, err = stack.salesOrders.Submit(ctx, order.ID)
	require.NoError(t, err)
	_, err = stack.salesOrders.Start(ctx, order.ID)
	require.NoError(t, err)

	result, err := stack.salesOrders.Complete(ctx, order.ID)
	require.NoError(t, err)
	return result
}
