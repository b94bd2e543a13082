package usecase_test

import (
	"context"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

type mockCategoryRepository struct {
	ListFunc       func(ctx context.Context) ([]entity.Category, error)
	FindByIDFunc   func(ctx context.Context, id string) (*entity.Category, error)
	FindByNameFunc func(ctx context.Context, name string) (*entity.Category, error)
	CreateFunc     func(ctx context.Context, c *entity.Category) error
	UpdateFunc     func(ctx context.Context, c *entity.Category) error
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrCategoryNotFound
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, usecase.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockProductRepository struct {
	ListFunc             func(ctx context.Context) ([]entity.Product, error)
	ListOnSaleFunc       func(ctx context.Context) ([]entity.Product, error)
	SearchFunc           func(ctx context.Context, q string) ([]entity.Product, error)
	ListByCategoryFunc   func(ctx context.Context, categoryID string) ([]entity.Product, error)
	LatestFunc           func(ctx context.Context, limit int) ([]entity.Product, error)
	FindByIDFunc         func(ctx context.Context, id string) (*entity.Product, error)
	CreateFunc           func(ctx context.Context, p *entity.Product) error
	UpdateFunc           func(ctx context.Context, p *entity.Product) error
	DeleteFunc           func(ctx context.Context, id string) error
	ExistsByCategoryFunc func(ctx context.Context, categoryID string) (bool, error)
}

func (m *mockProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockProductRepository) ListOnSale(ctx context.Context) ([]entity.Product, error) {
	if m.ListOnSaleFunc != nil {
		return m.ListOnSaleFunc(ctx)
	}
	return nil, nil
}

func (m *mockProductRepository) Search(ctx context.Context, q string) ([]entity.Product, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]entity.Product, error) {
	if m.ListByCategoryFunc != nil {
		return m.ListByCategoryFunc(ctx, categoryID)
	}
	return nil, nil
}

func (m *mockProductRepository) Latest(ctx context.Context, limit int) ([]entity.Product, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrProductNotFound
}

func (m *mockProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, p *entity.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockProductRepository) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	if m.ExistsByCategoryFunc != nil {
		return m.ExistsByCategoryFunc(ctx, categoryID)
	}
	return false, nil
}

// directRunner runs fn without a transaction.
type directRunner struct{ calls int }

func (r *directRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}
