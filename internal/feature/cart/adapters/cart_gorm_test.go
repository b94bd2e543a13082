package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shop_backend/internal/feature/cart/domain/entity"
	"shop_backend/internal/feature/cart/usecase"
	catalogadapters "shop_backend/internal/feature/catalog/adapters"
	catalogentity "shop_backend/internal/feature/catalog/domain/entity"
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
	require.NoError(t, db.AutoMigrate(
		&catalogadapters.CategoryModel{}, &catalogadapters.ProductModel{},
		&CartModel{}, &CartItemModel{},
	), "failed to migrate tables")
	return db
}

func TestCartGorm_FindAbsent(t *testing.T) {
	repo := NewCartGorm(setupTestDB(t))

	got, err := repo.FindByUserID(context.Background(), ids.New())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartGorm_LockCreatesEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCartGorm(db)
	userID := ids.New()

	got, err := repo.LockByUserID(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Empty(t, got.Items)

	again, err := repo.LockByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, again.UserID)

	var n int64
	require.NoError(t, db.Model(&CartModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCartGorm_SaveKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewCartGorm(setupTestDB(t))
	userID := ids.New()
	p1, p2, p3 := ids.New(), ids.New(), ids.New()

	require.NoError(t, repo.Save(ctx, &entity.Cart{UserID: userID, Items: []entity.Item{
		{ProductID: p2, Quantity: 2}, {ProductID: p1, Quantity: 1}, {ProductID: p3, Quantity: 3},
	}}))

	got, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []entity.Item{{ProductID: p2, Quantity: 2}, {ProductID: p1, Quantity: 1}, {ProductID: p3, Quantity: 3}}, got.Items)

	t.Run("save replaces the lines", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &entity.Cart{UserID: userID, Items: []entity.Item{{ProductID: p3, Quantity: 9}}}))
		got, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []entity.Item{{ProductID: p3, Quantity: 9}}, got.Items)
	})

	t.Run("save with no lines keeps an empty cart", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &entity.Cart{UserID: userID}))
		got, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.Items)
	})
}

func TestCartGorm_RollbackDiscardsLockedInsert(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewCartGorm(db)
	userID := ids.New()
	boom := errors.New("boom")

	err := txn.NewGormRunner(db).RunInTx(ctx, func(ctx context.Context) error {
		if _, err := repo.LockByUserID(ctx, userID); err != nil {
			return err
		}
		return boom
	})

	require.ErrorIs(t, err, boom)
	got, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) catalogentity.Product {
	t.Helper()
	ctx := context.Background()
	cat := catalogentity.Category{ID: ids.New(), Name: name + " category", ImageURL: "c.png"}
	require.NoError(t, catalogadapters.NewCategoryGorm(db).Create(ctx, &cat))
	p := catalogentity.Product{
		ID: ids.New(), Name: name, Price: decimal.RequireFromString(price), ImageURL: "p.png",
		Stock: stock, CategoryID: cat.ID,
	}
	require.NoError(t, catalogadapters.NewProductGorm(db).Create(ctx, &p))
	return p
}

func stockOf(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var m catalogadapters.ProductModel
	require.NoError(t, db.First(&m, "id = ?", id).Error)
	return m.Stock
}

func TestCheckoutAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	carts := NewCartGorm(db)
	uc := usecase.NewCartUsecase(carts, catalogadapters.NewProductGorm(db), txn.NewGormRunner(db),
		txn.Policy{MaxAttempts: 2, Backoff: time.Millisecond}, nil)

	tea := seedProduct(t, db, "Tea", "3.00", 4)
	mug := seedProduct(t, db, "Mug", "8.50", 1)
	userID := ids.New()

	three, two := 3.0, 2.0
	_, err := uc.MergeGuestCart(ctx, userID, []usecase.ItemInput{
		{ProductID: tea.ID, Quantity: &three},
		{ProductID: mug.ID, Quantity: &two},
	})
	require.NoError(t, err)

	t.Run("short line rolls everything back", func(t *testing.T) {
		_, err := uc.Checkout(ctx, userID)

		var stockErr *usecase.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, mug.ID, stockErr.ProductID)
		assert.Equal(t, 1, stockErr.Available)
		assert.Equal(t, 4, stockOf(t, db, tea.ID))

		cart, err := carts.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 2)
	})

	t.Run("checkout decrements and empties", func(t *testing.T) {
		_, err := uc.RemoveItem(ctx, userID, mug.ID)
		require.NoError(t, err)

		res, err := uc.Checkout(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, "9.00", res.Receipt.Total.StringFixed(2))
		assert.Equal(t, 1, stockOf(t, db, tea.ID))
		assert.Equal(t, 1, stockOf(t, db, mug.ID))

		cart, err := carts.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})
}
