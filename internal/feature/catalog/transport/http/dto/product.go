package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// CreateProductReq is the body of POST /api/products. Prices accept JSON numbers or strings.
type CreateProductReq struct {
	Name      string           `json:"name" binding:"required"`
	Price     *decimal.Decimal `json:"price" binding:"required"`
	ImageURL  string           `json:"imageUrl" binding:"required"`
	Stock     *int             `json:"stock"`
	Category  string           `json:"category" binding:"required"`
	IsOnSale  bool             `json:"isOnSale"`
	SalePrice *decimal.Decimal `json:"salePrice"`
}

func (r *CreateProductReq) ToInput() usecase.NewProduct {
	return usecase.NewProduct{
		Name:       r.Name,
		Price:      *r.Price,
		ImageURL:   r.ImageURL,
		Stock:      r.Stock,
		CategoryID: r.Category,
		IsOnSale:   r.IsOnSale,
		SalePrice:  r.SalePrice,
	}
}

// UpdateProductReq is the body of PUT /api/products/:id. Absent fields are left unchanged.
type UpdateProductReq struct {
	Name      *string          `json:"name"`
	Price     *decimal.Decimal `json:"price"`
	ImageURL  *string          `json:"imageUrl"`
	Stock     *int             `json:"stock"`
	Category  *string          `json:"category"`
	IsOnSale  *bool            `json:"isOnSale"`
	SalePrice *decimal.Decimal `json:"salePrice"`
}

func (r *UpdateProductReq) ToPatch() usecase.ProductPatch {
	return usecase.ProductPatch{
		Name:       r.Name,
		Price:      r.Price,
		ImageURL:   r.ImageURL,
		Stock:      r.Stock,
		CategoryID: r.Category,
		IsOnSale:   r.IsOnSale,
		SalePrice:  r.SalePrice,
	}
}

// CategoryRef is the populated category of a product.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductRes is the public view of a product. Money is encoded as decimal strings.
type ProductRes struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Image     string           `json:"image"`
	Stock     int              `json:"stock"`
	Category  CategoryRef      `json:"category"`
	IsOnSale  bool             `json:"isOnSale"`
	SalePrice *decimal.Decimal `json:"salePrice"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func NewProductRes(p *entity.Product) ProductRes {
	res := ProductRes{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.ImageURL,
		Stock:     p.Stock,
		Category:  CategoryRef{ID: p.CategoryID, Name: p.CategoryName},
		IsOnSale:  p.IsOnSale,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.SalePrice.Valid {
		sale := p.SalePrice.Decimal
		res.SalePrice = &sale
	}
	return res
}

func NewProductList(ps []entity.Product) []ProductRes {
	out := make([]ProductRes, 0, len(ps))
	for i := range ps {
		out = append(out, NewProductRes(&ps[i]))
	}
	return out
}

// ProductSummaryRes is the trimmed view used by the latest-products strip.
type ProductSummaryRes struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}
