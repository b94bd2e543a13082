package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/shared/ids"
)

// LatestLimit is how many products Latest returns.
const LatestLimit = 5

// ProductRepository abstracts product persistence. Reads fill CategoryName.
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
	ListOnSale(ctx context.Context) ([]entity.Product, error)
	// Search matches name case-insensitively as a substring.
	Search(ctx context.Context, q string) ([]entity.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]entity.Product, error)
	// Latest returns up to limit products, newest first.
	Latest(ctx context.Context, limit int) ([]entity.Product, error)
	// FindByID returns ErrProductNotFound when absent.
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	// Update writes every mutable field and returns ErrProductNotFound when absent.
	Update(ctx context.Context, p *entity.Product) error
	// Delete returns ErrProductNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// NewProduct is the input of Create.
type NewProduct struct {
	Name       string
	Price      decimal.Decimal
	ImageURL   string
	Stock      *int
	CategoryID string
	IsOnSale   bool
	SalePrice  *decimal.Decimal
}

// ProductPatch holds the fields to change. Nil fields are kept.
type ProductPatch struct {
	Name       *string
	Price      *decimal.Decimal
	ImageURL   *string
	Stock      *int
	CategoryID *string
	IsOnSale   *bool
	SalePrice  *decimal.Decimal
}

type productUsecase struct {
	products   ProductRepository
	categories CategoryRepository
}

// NewProductUsecase creates the product usecase.
func NewProductUsecase(products ProductRepository, categories CategoryRepository) *productUsecase {
	return &productUsecase{products: products, categories: categories}
}

func (u *productUsecase) List(ctx context.Context) ([]entity.Product, error) {
	return u.products.List(ctx)
}

func (u *productUsecase) ListOffers(ctx context.Context) ([]entity.Product, error) {
	return u.products.ListOnSale(ctx)
}

// Search rejects an empty query with ErrInvalidInput.
func (u *productUsecase) Search(ctx context.Context, q string) ([]entity.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: a search term is required", ErrInvalidInput)
	}
	return u.products.Search(ctx, q)
}

// ListByCategoryName returns an empty list for an unknown category.
func (u *productUsecase) ListByCategoryName(ctx context.Context, name string) ([]entity.Product, error) {
	c, err := u.categories.FindByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, ErrCategoryNotFound) {
		return []entity.Product{}, nil
	}
	if err != nil {
		return nil, err
	}
	return u.products.ListByCategory(ctx, c.ID)
}

func (u *productUsecase) Latest(ctx context.Context) ([]entity.Product, error) {
	return u.products.Latest(ctx, LatestLimit)
}

func (u *productUsecase) Get(ctx context.Context, id string) (*entity.Product, error) {
	id, err := ids.Canonical(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return u.products.FindByID(ctx, id)
}

// Create validates in and stores a new product. Stock defaults to zero.
func (u *productUsecase) Create(ctx context.Context, in NewProduct) (*entity.Product, error) {
	p := &entity.Product{
		ID:       ids.New(),
		Name:     strings.TrimSpace(in.Name),
		Price:    in.Price,
		ImageURL: strings.TrimSpace(in.ImageURL),
		IsOnSale: in.IsOnSale,
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.SalePrice != nil {
		p.SalePrice = decimal.NewNullDecimal(*in.SalePrice)
	}
	if err := u.setCategory(ctx, p, in.CategoryID); err != nil {
		return nil, err
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := u.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies patch to the stored product and validates the merged result.
// Turning the sale off clears the sale price.
func (u *productUsecase) Update(ctx context.Context, id string, patch ProductPatch) (*entity.Product, error) {
	p, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.CategoryID != nil {
		if err := u.setCategory(ctx, p, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	if patch.IsOnSale != nil {
		p.IsOnSale = *patch.IsOnSale
	}
	if patch.SalePrice != nil {
		p.SalePrice = decimal.NewNullDecimal(*patch.SalePrice)
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := u.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *productUsecase) Delete(ctx context.Context, id string) error {
	id, err := ids.Canonical(id)
	if err != nil {
		return ErrProductNotFound
	}
	return u.products.Delete(ctx, id)
}

// setCategory resolves ref and stores its canonical id and name on p.
func (u *productUsecase) setCategory(ctx context.Context, p *entity.Product, ref string) error {
	id, err := ids.Canonical(ref)
	if err != nil {
		return fmt.Errorf("%w: category must be a valid category id", ErrInvalidInput)
	}
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, ErrCategoryNotFound) {
		return fmt.Errorf("%w: category %s does not exist", ErrInvalidInput, id)
	}
	if err != nil {
		return err
	}
	p.CategoryID, p.CategoryName = c.ID, c.Name
	return nil
}

func validateProduct(p *entity.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case p.ImageURL == "":
		return fmt.Errorf("%w: imageUrl is required", ErrInvalidInput)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	if !p.IsOnSale {
		p.SalePrice = decimal.NullDecimal{}
		return nil
	}
	if !p.SalePrice.Valid {
		return fmt.Errorf("%w: salePrice is required while the product is on sale", ErrInvalidInput)
	}
	if p.SalePrice.Decimal.IsNegative() || !p.SalePrice.Decimal.LessThan(p.Price) {
		return fmt.Errorf("%w: salePrice must be lower than price", ErrInvalidInput)
	}
	return nil
}
