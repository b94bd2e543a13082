// Package dto defines the JSON bodies of the catalog endpoints.
package dto

import (
	"time"

	"shop_backend/internal/feature/catalog/domain/entity"
)

// CategoryReq is the body of category create and update.
type CategoryReq struct {
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"required"`
}

type CategoryRes struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCategoryRes(c *entity.Category) CategoryRes {
	return CategoryRes{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}
