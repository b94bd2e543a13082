package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop_backend/internal/feature/cart/domain/entity"
	"shop_backend/internal/feature/cart/usecase"
	"shop_backend/internal/platform/txn"
)

// CartModel is one row per user. Its row lock serialises writers of the same cart.
type CartModel struct {
	UserID    string `gorm:"primaryKey;size:36"`
	UpdatedAt time.Time
}

func (CartModel) TableName() string { return "carts" }

// CartItemModel is one cart line. Products are referenced loosely so deleting a product never touches carts.
type CartItemModel struct {
	UserID    string `gorm:"primaryKey;size:36"`
	ProductID string `gorm:"primaryKey;size:36;index"`
	Quantity  int    `gorm:"not null;check:chk_cart_items_quantity,quantity > 0"`
	Position  int    `gorm:"not null"`
}

func (CartItemModel) TableName() string { return "cart_items" }

type cartGorm struct {
	db *gorm.DB
}

var _ usecase.CartRepository = (*cartGorm)(nil)

// NewCartGorm returns a cart repository backed by db.
func NewCartGorm(db *gorm.DB) *cartGorm {
	return &cartGorm{db: db}
}

func (r *cartGorm) FindByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	db := txn.DB(ctx, r.db)
	var m CartModel
	if err := db.First(&m, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.load(db, m)
}

// LockByUserID inserts the cart row if missing and then selects it FOR UPDATE.
// SQLite has no row locks; its single writer gives the same guarantee.
func (r *cartGorm) LockByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	db := txn.DB(ctx, r.db)
	created := CartModel{UserID: userID, UpdatedAt: time.Now().UTC()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&created).Error; err != nil {
		return nil, err
	}
	var m CartModel
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return r.load(db, m)
}

func (r *cartGorm) load(db *gorm.DB, m CartModel) (*entity.Cart, error) {
	var rows []CartItemModel
	if err := db.Where("user_id = ?", m.UserID).Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}
	cart := &entity.Cart{UserID: m.UserID, UpdatedAt: m.UpdatedAt, Items: make([]entity.Item, 0, len(rows))}
	for _, row := range rows {
		cart.Items = append(cart.Items, entity.Item{ProductID: row.ProductID, Quantity: row.Quantity})
	}
	return cart, nil
}

// Save upserts the cart row and rewrites its lines in order.
func (r *cartGorm) Save(ctx context.Context, cart *entity.Cart) error {
	db := txn.DB(ctx, r.db)
	m := CartModel{UserID: cart.UserID, UpdatedAt: cart.UpdatedAt}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return err
	}
	if err := db.Where("user_id = ?", cart.UserID).Delete(&CartItemModel{}).Error; err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return nil
	}
	rows := make([]CartItemModel, 0, len(cart.Items))
	for i, it := range cart.Items {
		rows = append(rows, CartItemModel{UserID: cart.UserID, ProductID: it.ProductID, Quantity: it.Quantity, Position: i})
	}
	return db.Create(&rows).Error
}
