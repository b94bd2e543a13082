package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/platform/txn"
)

// ProductModel is the products table. Stock carries a CHECK so the store itself refuses a negative value.
type ProductModel struct {
	ID         string              `gorm:"primaryKey;size:36"`
	Name       string              `gorm:"size:255;not null;index"`
	Price      decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	ImageURL   string              `gorm:"size:1024;not null"`
	Stock      int                 `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	CategoryID string              `gorm:"size:36;not null;index"`
	Category   CategoryModel       `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	IsOnSale   bool                `gorm:"not null;default:false;index"`
	SalePrice  decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	CreatedAt  time.Time           `gorm:"index"`
	UpdatedAt  time.Time
}

func (ProductModel) TableName() string { return "products" }

func (m *ProductModel) toEntity() entity.Product {
	return entity.Product{
		ID:           m.ID,
		Name:         m.Name,
		Price:        m.Price,
		ImageURL:     m.ImageURL,
		Stock:        m.Stock,
		CategoryID:   m.CategoryID,
		CategoryName: m.Category.Name,
		IsOnSale:     m.IsOnSale,
		SalePrice:    m.SalePrice,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func productModel(p *entity.Product) ProductModel {
	return ProductModel{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		ImageURL:   p.ImageURL,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		IsOnSale:   p.IsOnSale,
		SalePrice:  p.SalePrice,
	}
}

// productGorm implements the product repository and the cart's stock operations.
type productGorm struct {
	db *gorm.DB
}

var _ usecase.ProductRepository = (*productGorm)(nil)
var _ usecase.CategoryUsage = (*productGorm)(nil)

// NewProductGorm returns a product repository backed by db.
func NewProductGorm(db *gorm.DB) *productGorm {
	return &productGorm{db: db}
}

// withCategory joins the category so reads carry its name.
func (r *productGorm) withCategory(ctx context.Context) *gorm.DB {
	return txn.DB(ctx, r.db).Joins("Category")
}

func (r *productGorm) find(q *gorm.DB) ([]entity.Product, error) {
	var ms []ProductModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].toEntity())
	}
	return out, nil
}

func (r *productGorm) List(ctx context.Context) ([]entity.Product, error) {
	return r.find(r.withCategory(ctx).Order("products.name ASC"))
}

func (r *productGorm) ListOnSale(ctx context.Context) ([]entity.Product, error) {
	return r.find(r.withCategory(ctx).Where("products.is_on_sale = ?", true).Order("products.name ASC"))
}

func (r *productGorm) Search(ctx context.Context, q string) ([]entity.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	return r.find(r.withCategory(ctx).Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, pattern).Order("products.name ASC"))
}

func (r *productGorm) ListByCategory(ctx context.Context, categoryID string) ([]entity.Product, error) {
	return r.find(r.withCategory(ctx).Where("products.category_id = ?", categoryID).Order("products.name ASC"))
}

func (r *productGorm) Latest(ctx context.Context, limit int) ([]entity.Product, error) {
	return r.find(r.withCategory(ctx).Order("products.created_at DESC").Limit(limit))
}

func (r *productGorm) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var m ProductModel
	if err := r.withCategory(ctx).Where("products.id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProductNotFound
		}
		return nil, err
	}
	p := m.toEntity()
	return &p, nil
}

func (r *productGorm) Create(ctx context.Context, p *entity.Product) error {
	m := productModel(p)
	if err := txn.DB(ctx, r.db).Omit("Category").Create(&m).Error; err != nil {
		return err
	}
	p.CreatedAt, p.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *productGorm) Update(ctx context.Context, p *entity.Product) error {
	m := productModel(p)
	m.UpdatedAt = time.Now()
	res := txn.DB(ctx, r.db).Model(&ProductModel{}).Where("id = ?", p.ID).
		Select("name", "price", "image_url", "stock", "category_id", "is_on_sale", "sale_price", "updated_at").
		Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrProductNotFound
	}
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *productGorm) Delete(ctx context.Context, id string) error {
	res := txn.DB(ctx, r.db).Where("id = ?", id).Delete(&ProductModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrProductNotFound
	}
	return nil
}

func (r *productGorm) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	var n int64
	err := txn.DB(ctx, r.db).Model(&ProductModel{}).Where("category_id = ?", categoryID).Limit(1).Count(&n).Error
	return n > 0, err
}

// FindByIDs returns the products among ids keyed by id. Unknown ids are absent from the map.
func (r *productGorm) FindByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	out := make(map[string]entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var ms []ProductModel
	if err := txn.DB(ctx, r.db).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	for i := range ms {
		out[ms[i].ID] = ms[i].toEntity()
	}
	return out, nil
}

// DecrementStock subtracts qty from the product's stock only if enough is left.
// It reports false when the guard did not match.
func (r *productGorm) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	res := txn.DB(ctx, r.db).Model(&ProductModel{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
