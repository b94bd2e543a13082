// Package handler provides the HTTP handlers of the catalog feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/transport/http/dto"
	"shop_backend/internal/platform/http/respond"
)

// CategoryUsecase defines the category operations the handler depends on.
type CategoryUsecase interface {
	List(ctx context.Context) ([]entity.Category, error)
	Get(ctx context.Context, id string) (*entity.Category, error)
	Create(ctx context.Context, name, imageURL string) (*entity.Category, error)
	Update(ctx context.Context, id, name, imageURL string) (*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryHandler struct {
	uc CategoryUsecase
}

func NewCategoryHandler(uc CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.uc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.CategoryRes, 0, len(cats))
	for i := range cats {
		out = append(out, dto.NewCategoryRes(&cats[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryRes(cat))
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "name and imageUrl are required", gin.H{"detail": err.Error()})
		return
	}
	cat, err := h.uc.Create(c.Request.Context(), req.Name, req.ImageURL)
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("category created", "category_id", cat.ID, "name", cat.Name, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewCategoryRes(cat))
}

// Update handles PUT /api/categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "name and imageUrl are required", gin.H{"detail": err.Error()})
		return
	}
	cat, err := h.uc.Update(c.Request.Context(), c.Param("id"), req.Name, req.ImageURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryRes(cat))
}

// Delete handles DELETE /api/categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("category deleted", "category_id", c.Param("id"), "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Message: "category deleted"})
}
