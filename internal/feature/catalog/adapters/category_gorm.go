// Package adapters implements catalog persistence on GORM and MongoDB.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/platform/db"
	"shop_backend/internal/platform/txn"
)

// CategoryModel is the categories table.
type CategoryModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"uniqueIndex;size:255;not null"`
	ImageURL  string `gorm:"size:1024;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CategoryModel) TableName() string { return "categories" }

func (m *CategoryModel) toEntity() entity.Category {
	return entity.Category{ID: m.ID, Name: m.Name, ImageURL: m.ImageURL, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

type categoryGorm struct {
	db *gorm.DB
}

var _ usecase.CategoryRepository = (*categoryGorm)(nil)

// NewCategoryGorm returns a category repository backed by db.
func NewCategoryGorm(db *gorm.DB) *categoryGorm {
	return &categoryGorm{db: db}
}

func (r *categoryGorm) List(ctx context.Context) ([]entity.Category, error) {
	var ms []CategoryModel
	if err := txn.DB(ctx, r.db).Order("name ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Category, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].toEntity())
	}
	return out, nil
}

func (r *categoryGorm) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *categoryGorm) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.first(ctx, "LOWER(name) = LOWER(?)", name)
}

func (r *categoryGorm) first(ctx context.Context, query string, arg any) (*entity.Category, error) {
	var m CategoryModel
	if err := txn.DB(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCategoryNotFound
		}
		return nil, err
	}
	c := m.toEntity()
	return &c, nil
}

func (r *categoryGorm) Create(ctx context.Context, c *entity.Category) error {
	m := CategoryModel{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL}
	if err := txn.DB(ctx, r.db).Create(&m).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrCategoryExists
		}
		return err
	}
	c.CreatedAt, c.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *categoryGorm) Update(ctx context.Context, c *entity.Category) error {
	now := time.Now()
	res := txn.DB(ctx, r.db).Model(&CategoryModel{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":       c.Name,
		"image_url":  c.ImageURL,
		"updated_at": now,
	})
	if res.Error != nil {
		if db.IsUniqueViolation(res.Error) {
			return usecase.ErrCategoryExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrCategoryNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (r *categoryGorm) Delete(ctx context.Context, id string) error {
	res := txn.DB(ctx, r.db).Where("id = ?", id).Delete(&CategoryModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrCategoryNotFound
	}
	return nil
}
