package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory SQLite database with all tables
// migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ProductModel{},
		&models.VariationModel{},
		&models.VariationItemModel{},
		&models.CategoryModel{},
		&models.SystemCategoryModel{},
		&models.PriceListModel{},
		&models.PriceListProductModel{},
		&models.PriceRecordModel{},
		&models.IntegrationModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.SupplyModel{},
		&models.ListingModel{},
		&models.DictionaryModel{},
	)
	require.NoError(t, err)

	return db
}
