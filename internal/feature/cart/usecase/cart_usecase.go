// Package usecase reconciles guest and stored carts and runs checkout against product stock.
//
// Every mutation is a read-modify-write of one cart and runs in a store transaction
// through txn.Retry, so a transient conflict re-executes the whole closure and a
// business error aborts it without partial effects. Product snapshots for responses
// are read only after the transaction has committed.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shop_backend/internal/feature/cart/domain/entity"
	catalogentity "shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/platform/txn"
	"shop_backend/internal/shared/ids"
)

// CartRepository persists carts. Inside a transaction, ctx carries the store handle.
type CartRepository interface {
	// FindByUserID returns nil without error when the user has no cart.
	FindByUserID(ctx context.Context, userID string) (*entity.Cart, error)
	// LockByUserID returns the user's cart, creating an empty one if needed, and holds
	// it against concurrent writers until the transaction ends where the store supports it.
	LockByUserID(ctx context.Context, userID string) (*entity.Cart, error)
	// Save replaces the stored items of cart.UserID, creating the cart if absent.
	Save(ctx context.Context, cart *entity.Cart) error
}

// ProductStore is the stock side of checkout.
type ProductStore interface {
	// FindByIDs returns the existing products among ids keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]catalogentity.Product, error)
	// DecrementStock lowers stock by qty only when at least qty is left, and reports whether it did.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
}

// ProductCache is told which products changed stock after a checkout commits.
type ProductCache interface {
	InvalidateProducts(ctx context.Context, ids ...string) error
}

// Line is a cart item joined with its current product. Product is nil once the product is deleted.
type Line struct {
	ProductID string
	Quantity  int
	Product   *catalogentity.Product
}

// View is a cart with resolved product snapshots.
type View struct {
	UserID    string
	Lines     []Line
	UpdatedAt time.Time
}

// ReceiptLine prices one purchased item at the moment of checkout.
type ReceiptLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Receipt summarises a committed checkout. Nothing beyond the stock and cart changes is persisted.
type Receipt struct {
	Lines []ReceiptLine
	Total decimal.Decimal
}

// CheckoutResult is the emptied cart plus the receipt of what was bought.
type CheckoutResult struct {
	Cart    *View
	Receipt Receipt
}

type cartUsecase struct {
	carts    CartRepository
	products ProductStore
	tx       txn.Runner
	policy   txn.Policy
	cache    ProductCache
	tracer   trace.Tracer
}

// NewCartUsecase wires the engine. cache may be nil.
func NewCartUsecase(carts CartRepository, products ProductStore, tx txn.Runner, policy txn.Policy, cache ProductCache) *cartUsecase {
	return &cartUsecase{
		carts:    carts,
		products: products,
		tx:       tx,
		policy:   policy,
		cache:    cache,
		tracer:   otel.Tracer("shop_backend/cart"),
	}
}

func (u *cartUsecase) start(ctx context.Context, op, userID string) (context.Context, trace.Span) {
	return u.tracer.Start(ctx, "cart."+op, trace.WithAttributes(attribute.String("user.id", userID)))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// mutate runs fn on the locked cart inside a retried transaction and saves the result.
func (u *cartUsecase) mutate(ctx context.Context, userID string, fn func(ctx context.Context, cart *entity.Cart) error) (*entity.Cart, error) {
	var saved *entity.Cart
	err := txn.Retry(ctx, u.tx, u.policy, func(ctx context.Context) error {
		cart, err := u.carts.LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(ctx, cart); err != nil {
			return err
		}
		cart.UpdatedAt = time.Now().UTC()
		if err := u.carts.Save(ctx, cart); err != nil {
			return err
		}
		saved = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetCart returns the user's cart, or an empty one when none exists.
func (u *cartUsecase) GetCart(ctx context.Context, userID string) (_ *View, err error) {
	ctx, span := u.start(ctx, "get", userID)
	defer func() { end(span, err) }()

	cart, err := u.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &entity.Cart{UserID: userID}
	}
	return u.resolve(ctx, cart)
}

// MergeGuestCart overwrites the stored quantity of every product in guest with the guest quantity.
// Products only in the stored cart are kept. Any invalid guest item rejects the whole batch.
func (u *cartUsecase) MergeGuestCart(ctx context.Context, userID string, guest []ItemInput) (_ *View, err error) {
	ctx, span := u.start(ctx, "merge", userID)
	defer func() { end(span, err) }()

	items, err := validateItems(guest, false)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("cart.guest_items", len(items)))

	cart, err := u.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart) error {
		cart.Items = mergeItems(cart.Items, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.resolve(ctx, cart)
}

// AddItem increases the quantity of a product, creating the line when needed.
// The stock check only guards against asking for more than is currently on hand;
// checkout re-validates authoritatively.
func (u *cartUsecase) AddItem(ctx context.Context, userID string, in ItemInput) (_ *View, err error) {
	ctx, span := u.start(ctx, "add", userID)
	defer func() { end(span, err) }()

	id, err := ids.Canonical(in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: productId must be a valid identifier", ErrInvalidInput)
	}
	qty, reason := quantity(in.Quantity, false)
	if reason != "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, reason)
	}

	cart, err := u.mutate(ctx, userID, func(ctx context.Context, cart *entity.Cart) error {
		found, err := u.products.FindByIDs(ctx, []string{id})
		if err != nil {
			return err
		}
		p, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		want := cart.Quantity(id) + qty
		if want > p.Stock {
			return &InsufficientStockError{ProductID: id, Name: p.Name, Available: p.Stock, Requested: want}
		}
		cart.Items = mergeItems(cart.Items, []entity.Item{{ProductID: id, Quantity: want}})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.resolve(ctx, cart)
}

// ReplaceCart sets the cart to exactly items. Zero quantities are dropped.
func (u *cartUsecase) ReplaceCart(ctx context.Context, userID string, in []ItemInput) (_ *View, err error) {
	ctx, span := u.start(ctx, "replace", userID)
	defer func() { end(span, err) }()

	items, err := validateItems(in, true)
	if err != nil {
		return nil, err
	}
	cart, err := u.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart) error {
		cart.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.resolve(ctx, cart)
}

// RemoveItem drops the line for productID. A missing cart or line is not an error.
func (u *cartUsecase) RemoveItem(ctx context.Context, userID, productID string) (_ *View, err error) {
	ctx, span := u.start(ctx, "remove", userID)
	defer func() { end(span, err) }()

	id, err := ids.Canonical(productID)
	if err != nil {
		return nil, fmt.Errorf("%w: productId must be a valid identifier", ErrInvalidInput)
	}

	var cart *entity.Cart
	err = txn.Retry(ctx, u.tx, u.policy, func(ctx context.Context) error {
		cart = nil
		existing, err := u.carts.FindByUserID(ctx, userID)
		if err != nil || existing == nil {
			return err
		}
		locked, err := u.carts.LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		kept := slices.DeleteFunc(slices.Clone(locked.Items), func(it entity.Item) bool { return it.ProductID == id })
		if len(kept) != len(locked.Items) {
			locked.Items = kept
			locked.UpdatedAt = time.Now().UTC()
			if err := u.carts.Save(ctx, locked); err != nil {
				return err
			}
		}
		cart = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &entity.Cart{UserID: userID}
	}
	return u.resolve(ctx, cart)
}

// ClearCart empties the cart, creating it if absent.
func (u *cartUsecase) ClearCart(ctx context.Context, userID string) (_ *View, err error) {
	ctx, span := u.start(ctx, "clear", userID)
	defer func() { end(span, err) }()

	cart, err := u.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart) error {
		cart.Items = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.resolve(ctx, cart)
}

// Checkout decrements stock for every line and empties the cart in one transaction.
// If any line cannot be supplied nothing changes and the first such line, in cart order,
// is reported as an InsufficientStockError.
func (u *cartUsecase) Checkout(ctx context.Context, userID string) (_ *CheckoutResult, err error) {
	ctx, span := u.start(ctx, "checkout", userID)
	defer func() { end(span, err) }()

	var receipt Receipt
	var purchased []string
	cart, err := u.mutate(ctx, userID, func(ctx context.Context, cart *entity.Cart) error {
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}
		products, err := u.products.FindByIDs(ctx, cart.ProductIDs())
		if err != nil {
			return err
		}
		for _, it := range cart.Items {
			p, ok := products[it.ProductID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
			}
			if p.Stock < it.Quantity {
				return &InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: it.Quantity}
			}
		}

		// Decrement in id order so concurrent checkouts lock products in the same sequence.
		ordered := slices.Clone(cart.Items)
		slices.SortFunc(ordered, func(a, b entity.Item) int {
			switch {
			case a.ProductID < b.ProductID:
				return -1
			case a.ProductID > b.ProductID:
				return 1
			}
			return 0
		})
		for _, it := range ordered {
			ok, err := u.products.DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return u.shortfall(ctx, it, products[it.ProductID].Name)
			}
		}

		receipt = buildReceipt(cart.Items, products)
		purchased = cart.ProductIDs()
		cart.Items = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.InvalidateProducts(ctx, purchased...); err != nil {
			slog.Warn("product cache invalidation failed", "user_id", userID, "products", purchased, "error", err)
		}
	}
	slog.Info("checkout completed", "user_id", userID, "lines", len(receipt.Lines), "total", receipt.Total.StringFixed(2))

	view, err := u.resolve(ctx, cart)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Cart: view, Receipt: receipt}, nil
}

// shortfall re-reads a product whose guarded decrement did not match and reports its current stock.
func (u *cartUsecase) shortfall(ctx context.Context, it entity.Item, name string) error {
	now, err := u.products.FindByIDs(ctx, []string{it.ProductID})
	if err != nil {
		return err
	}
	p, ok := now[it.ProductID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
	}
	if name == "" {
		name = p.Name
	}
	return &InsufficientStockError{ProductID: it.ProductID, Name: name, Available: p.Stock, Requested: it.Quantity}
}

func buildReceipt(items []entity.Item, products map[string]catalogentity.Product) Receipt {
	r := Receipt{Lines: make([]ReceiptLine, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		p := products[it.ProductID]
		unit := p.EffectivePrice()
		total := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		r.Lines = append(r.Lines, ReceiptLine{
			ProductID: it.ProductID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: unit,
			LineTotal: total,
		})
		r.Total = r.Total.Add(total)
	}
	return r
}

// resolve joins every line with its current product. It runs outside any transaction.
func (u *cartUsecase) resolve(ctx context.Context, cart *entity.Cart) (*View, error) {
	view := &View{UserID: cart.UserID, Lines: make([]Line, 0, len(cart.Items)), UpdatedAt: cart.UpdatedAt}
	if len(cart.Items) == 0 {
		return view, nil
	}
	products, err := u.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}
	for _, it := range cart.Items {
		line := Line{ProductID: it.ProductID, Quantity: it.Quantity}
		if p, ok := products[it.ProductID]; ok {
			line.Product = &p
		}
		view.Lines = append(view.Lines, line)
	}
	return view, nil
}
