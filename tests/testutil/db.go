package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/fabrikk-as/console-api/internal/database"
	"github.com/fabrikk-as/console-api/internal/domain"
)

// SetupTestDB opens an in-memory SQLite database and migrates the full
// schema. Every call gets its own database, so tests stay independent.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory test database")

	require.NoError(t, database.AutoMigrate(db))

	return db
}

// CreateTestCustomer creates a customer with a unique org number
func CreateTestCustomer(t *testing.T, db *gorm.DB, name string) *domain.Customer {
	t.Helper()

	orgNum := fmt.Sprintf("%09d", time.Now().UnixNano()%1000000000)
	customer := &domain.Customer{
		Name:      name,
		OrgNumber: orgNum,
		Email:     "test@example.com",
		Phone:     "12345678",
		Country:   "Norway",
		Status:    domain.CustomerStatusActive,
	}
	err := db.Omit(clause.Associations).Create(customer).Error
	require.NoError(t, err)
	return customer
}

// CreateTestContractor creates an active contractor
func CreateTestContractor(t *testing.T, db *gorm.DB, name string) *domain.Contractor {
	t.Helper()

	contractor := &domain.Contractor{
		Name:     name,
		Trade:    "steel erection",
		IsActive: true,
	}
	err := db.Omit(clause.Associations).Create(contractor).Error
	require.NoError(t, err)
	return contractor
}
