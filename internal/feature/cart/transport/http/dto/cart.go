// Package dto defines the JSON bodies of the cart endpoints.
package dto

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"shop_backend/internal/feature/cart/usecase"
)

// ItemReq is one line sent by a client. Quantity is a float so that
// non-integer values reach validation instead of failing to decode.
type ItemReq struct {
	ProductID string   `json:"productId"`
	Quantity  *float64 `json:"quantity"`
}

func (r *ItemReq) ToInput() usecase.ItemInput {
	if r == nil {
		return usecase.ItemInput{}
	}
	return usecase.ItemInput{ProductID: r.ProductID, Quantity: r.Quantity}
}

// toInputs decodes every entry on its own so that one badly typed entry is
// reported at its index instead of failing the whole body.
func toInputs(raw []json.RawMessage) []usecase.ItemInput {
	out := make([]usecase.ItemInput, 0, len(raw))
	for _, r := range raw {
		var it ItemReq
		if err := json.Unmarshal(r, &it); err != nil {
			in := it.ToInput()
			in.Malformed = malformedReason(err)
			out = append(out, in)
			continue
		}
		out = append(out, it.ToInput())
	}
	return out
}

func malformedReason(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "productId":
			return "productId must be a string"
		case "quantity":
			return "quantity must be a number"
		}
	}
	return "item must be an object {productId, quantity}"
}

// MergeReq is the body of POST /api/cart/merge.
type MergeReq struct {
	GuestCart []json.RawMessage `json:"guestCart" binding:"required"`
}

func (r *MergeReq) ToInputs() []usecase.ItemInput { return toInputs(r.GuestCart) }

// ReplaceReq is the body of POST /api/cart/update.
type ReplaceReq struct {
	Products []json.RawMessage `json:"products" binding:"required"`
}

func (r *ReplaceReq) ToInputs() []usecase.ItemInput { return toInputs(r.Products) }

type ProductSnapshotRes struct {
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Image     string           `json:"image"`
	Stock     int              `json:"stock"`
	IsOnSale  bool             `json:"isOnSale"`
	SalePrice *decimal.Decimal `json:"salePrice"`
}

type ItemRes struct {
	ProductID string              `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Product   *ProductSnapshotRes `json:"product"`
}

// CartRes is the resolved cart. Product is null for lines whose product was deleted.
type CartRes struct {
	UserID    string    `json:"userId"`
	Items     []ItemRes `json:"items"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func NewCartRes(v *usecase.View) CartRes {
	res := CartRes{UserID: v.UserID, Items: make([]ItemRes, 0, len(v.Lines)), UpdatedAt: v.UpdatedAt}
	for _, l := range v.Lines {
		item := ItemRes{ProductID: l.ProductID, Quantity: l.Quantity}
		if p := l.Product; p != nil {
			item.Product = &ProductSnapshotRes{
				Name:     p.Name,
				Price:    p.Price,
				Image:    p.ImageURL,
				Stock:    p.Stock,
				IsOnSale: p.IsOnSale,
			}
			if p.IsOnSale && p.SalePrice.Valid {
				sale := p.SalePrice.Decimal
				item.Product.SalePrice = &sale
			}
		}
		res.Items = append(res.Items, item)
	}
	return res
}

type ReceiptLineRes struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type ReceiptRes struct {
	Lines []ReceiptLineRes `json:"lines"`
	Total decimal.Decimal  `json:"total"`
}

// CheckoutRes is the emptied cart plus the receipt.
type CheckoutRes struct {
	CartRes
	Receipt ReceiptRes `json:"receipt"`
}

func NewCheckoutRes(r *usecase.CheckoutResult) CheckoutRes {
	receipt := ReceiptRes{Lines: make([]ReceiptLineRes, 0, len(r.Receipt.Lines)), Total: r.Receipt.Total}
	for _, l := range r.Receipt.Lines {
		receipt.Lines = append(receipt.Lines, ReceiptLineRes{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return CheckoutRes{CartRes: NewCartRes(r.Cart), Receipt: receipt}
}
