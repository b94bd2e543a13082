package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/platform/txn"
	"shop_backend/internal/shared/ids"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&CategoryModel{}, &ProductModel{}), "failed to migrate tables")
	return db
}

func seedCategory(t *testing.T, repo *categoryGorm, name string) entity.Category {
	t.Helper()
	c := entity.Category{ID: ids.New(), Name: name, ImageURL: name + ".png"}
	require.NoError(t, repo.Create(context.Background(), &c))
	return c
}

func seedProduct(t *testing.T, repo *productGorm, name string, categoryID string, stock int) entity.Product {
	t.Helper()
	p := entity.Product{
		ID: ids.New(), Name: name, Price: decimal.RequireFromString("2.50"), ImageURL: "p.png",
		Stock: stock, CategoryID: categoryID,
	}
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func TestCategoryGorm(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryGorm(setupTestDB(t))

	drinks := seedCategory(t, repo, "Drinks")
	seedCategory(t, repo, "Bakery")

	t.Run("list is sorted by name", func(t *testing.T) {
		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Bakery", got[0].Name)
		assert.Equal(t, "Drinks", got[1].Name)
	})

	t.Run("find by name ignores case", func(t *testing.T) {
		got, err := repo.FindByName(ctx, "dRiNkS")
		require.NoError(t, err)
		assert.Equal(t, drinks.ID, got.ID)

		_, err = repo.FindByName(ctx, "snacks")
		assert.ErrorIs(t, err, usecase.ErrCategoryNotFound)
	})

	t.Run("duplicate name", func(t *testing.T) {
		c := entity.Category{ID: ids.New(), Name: "Drinks", ImageURL: "x.png"}
		assert.ErrorIs(t, repo.Create(ctx, &c), usecase.ErrCategoryExists)
	})

	t.Run("update", func(t *testing.T) {
		c := drinks
		c.Name = "Beverages"
		require.NoError(t, repo.Update(ctx, &c))
		got, err := repo.FindByID(ctx, drinks.ID)
		require.NoError(t, err)
		assert.Equal(t, "Beverages", got.Name)

		c.Name = "Bakery"
		assert.ErrorIs(t, repo.Update(ctx, &c), usecase.ErrCategoryExists)

		missing := entity.Category{ID: ids.New(), Name: "Z", ImageURL: "z.png"}
		assert.ErrorIs(t, repo.Update(ctx, &missing), usecase.ErrCategoryNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, drinks.ID))
		assert.ErrorIs(t, repo.Delete(ctx, drinks.ID), usecase.ErrCategoryNotFound)
	})
}

func TestProductGorm_Reads(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	categories := NewCategoryGorm(db)
	products := NewProductGorm(db)

	snacks := seedCategory(t, categories, "Snacks")
	drinks := seedCategory(t, categories, "Drinks")

	chips := seedProduct(t, products, "Potato Chips", snacks.ID, 3)
	seedProduct(t, products, "Cola", drinks.ID, 10)
	seedProduct(t, products, "100% Juice", drinks.ID, 1)

	t.Run("list carries category names", func(t *testing.T) {
		got, err := products.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, p := range got {
			assert.NotEmpty(t, p.CategoryName, p.Name)
		}
	})

	t.Run("find by id", func(t *testing.T) {
		got, err := products.FindByID(ctx, chips.ID)
		require.NoError(t, err)
		assert.Equal(t, "Snacks", got.CategoryName)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("2.5")))

		_, err = products.FindByID(ctx, ids.New())
		assert.ErrorIs(t, err, usecase.ErrProductNotFound)
	})

	t.Run("search is case-insensitive and escapes wildcards", func(t *testing.T) {
		got, err := products.Search(ctx, "CHIP")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, chips.ID, got[0].ID)

		got, err = products.Search(ctx, "%")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "100% Juice", got[0].Name)
	})

	t.Run("by category", func(t *testing.T) {
		got, err := products.ListByCategory(ctx, drinks.ID)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		used, err := products.ExistsByCategory(ctx, drinks.ID)
		require.NoError(t, err)
		assert.True(t, used)

		used, err = products.ExistsByCategory(ctx, ids.New())
		require.NoError(t, err)
		assert.False(t, used)
	})

	t.Run("latest is newest first and limited", func(t *testing.T) {
		old := time.Now().Add(-time.Hour)
		require.NoError(t, db.Model(&ProductModel{}).Where("id = ?", chips.ID).Update("created_at", old).Error)

		got, err := products.Latest(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, p := range got {
			assert.NotEqual(t, chips.ID, p.ID)
		}
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		got, err := products.FindByIDs(ctx, []string{chips.ID, ids.New()})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, 3, got[chips.ID].Stock)
	})
}

func TestProductGorm_Writes(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	snacks := seedCategory(t, NewCategoryGorm(db), "Snacks")
	products := NewProductGorm(db)
	p := seedProduct(t, products, "Chips", snacks.ID, 5)

	t.Run("update writes sale fields", func(t *testing.T) {
		p.IsOnSale = true
		p.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString("1.25"))
		require.NoError(t, products.Update(ctx, &p))

		got, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, got.IsOnSale)
		assert.True(t, got.SalePrice.Valid)
		assert.True(t, got.SalePrice.Decimal.Equal(decimal.RequireFromString("1.25")))

		offers, err := products.ListOnSale(ctx)
		require.NoError(t, err)
		assert.Len(t, offers, 1)

		p.IsOnSale = false
		p.SalePrice = decimal.NullDecimal{}
		require.NoError(t, products.Update(ctx, &p))
		got, err = products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, got.SalePrice.Valid)
	})

	t.Run("update unknown", func(t *testing.T) {
		missing := p
		missing.ID = ids.New()
		assert.ErrorIs(t, products.Update(ctx, &missing), usecase.ErrProductNotFound)
	})

	t.Run("decrement is guarded", func(t *testing.T) {
		ok, err := products.DecrementStock(ctx, p.ID, 3)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = products.DecrementStock(ctx, p.ID, 3)
		require.NoError(t, err)
		assert.False(t, ok, "only 2 left")

		got, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stock)
	})

	t.Run("decrement joins a transaction and rolls back with it", func(t *testing.T) {
		runner := txn.NewGormRunner(db)
		err := runner.RunInTx(ctx, func(ctx context.Context) error {
			ok, err := products.DecrementStock(ctx, p.ID, 2)
			require.NoError(t, err)
			require.True(t, ok)
			return usecase.ErrInvalidInput
		})
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)

		got, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stock)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, products.Delete(ctx, p.ID))
		assert.ErrorIs(t, products.Delete(ctx, p.ID), usecase.ErrProductNotFound)
	})
}
