// Package usecase implements the catalog rules for categories and products.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/platform/txn"
	"shop_backend/internal/shared/ids"
)

// CategoryRepository abstracts category persistence.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CategoryRepository interface {
	// List returns every category ordered by name.
	List(ctx context.Context) ([]entity.Category, error)
	// FindByID returns ErrCategoryNotFound when absent.
	FindByID(ctx context.Context, id string) (*entity.Category, error)
	// FindByName matches case-insensitively and returns ErrCategoryNotFound when absent.
	FindByName(ctx context.Context, name string) (*entity.Category, error)
	// Create returns ErrCategoryExists on a duplicate name.
	Create(ctx context.Context, c *entity.Category) error
	// Update returns ErrCategoryNotFound or ErrCategoryExists.
	Update(ctx context.Context, c *entity.Category) error
	// Delete returns ErrCategoryNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// CategoryUsage reports whether any product references a category.
type CategoryUsage interface {
	ExistsByCategory(ctx context.Context, categoryID string) (bool, error)
}

// ProductCache is flushed when a category rename makes cached product reads stale.
type ProductCache interface {
	InvalidateAll(ctx context.Context) error
}

type categoryUsecase struct {
	categories CategoryRepository
	usage      CategoryUsage
	tx         txn.Runner
	cache      ProductCache
}

// NewCategoryUsecase creates the category usecase. tx scopes the in-use check and the delete together.
// cache may be nil.
func NewCategoryUsecase(categories CategoryRepository, usage CategoryUsage, tx txn.Runner, cache ProductCache) *categoryUsecase {
	return &categoryUsecase{categories: categories, usage: usage, tx: tx, cache: cache}
}

func (u *categoryUsecase) List(ctx context.Context) ([]entity.Category, error) {
	return u.categories.List(ctx)
}

func (u *categoryUsecase) Get(ctx context.Context, id string) (*entity.Category, error) {
	id, err := ids.Canonical(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	return u.categories.FindByID(ctx, id)
}

func (u *categoryUsecase) Create(ctx context.Context, name, imageURL string) (*entity.Category, error) {
	c := &entity.Category{ID: ids.New(), Name: strings.TrimSpace(name), ImageURL: strings.TrimSpace(imageURL)}
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	if err := u.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *categoryUsecase) Update(ctx context.Context, id, name, imageURL string) (*entity.Category, error) {
	c, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.ImageURL = strings.TrimSpace(name), strings.TrimSpace(imageURL)
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	if err := u.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	if u.cache != nil {
		_ = u.cache.InvalidateAll(ctx)
	}
	return c, nil
}

// Delete refuses with ErrCategoryInUse while a product still references the category.
func (u *categoryUsecase) Delete(ctx context.Context, id string) error {
	id, err := ids.Canonical(id)
	if err != nil {
		return ErrCategoryNotFound
	}
	return txn.Retry(ctx, u.tx, txn.Policy{}, func(ctx context.Context) error {
		used, err := u.usage.ExistsByCategory(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return ErrCategoryInUse
		}
		return u.categories.Delete(ctx, id)
	})
}

func validateCategory(c *entity.Category) error {
	if c.Name == "" || c.ImageURL == "" {
		return fmt.Errorf("%w: name and imageUrl are required", ErrInvalidInput)
	}
	return nil
}

// IsNotFound reports whether err is one of the catalog not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) || errors.Is(err, ErrProductNotFound)
}
