package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock is never negative.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	ImageURL string
	Stock    int

	CategoryID string
	// CategoryName is filled on reads and ignored on writes.
	CategoryName string

	IsOnSale bool
	// SalePrice is only meaningful while IsOnSale is set.
	SalePrice decimal.NullDecimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePrice is the sale price while the product is on sale, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.IsOnSale && p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}
