package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/transport/http/dto"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/platform/http/respond"
)

// ProductUsecase defines the product operations the handler depends on.
type ProductUsecase interface {
	List(ctx context.Context) ([]entity.Product, error)
	ListOffers(ctx context.Context) ([]entity.Product, error)
	Search(ctx context.Context, q string) ([]entity.Product, error)
	ListByCategoryName(ctx context.Context, name string) ([]entity.Product, error)
	Latest(ctx context.Context) ([]entity.Product, error)
	Get(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, in usecase.NewProduct) (*entity.Product, error)
	Update(ctx context.Context, id string, patch usecase.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductHandler struct {
	uc ProductUsecase
}

func NewProductHandler(uc ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) list(c *gin.Context, ps []entity.Product, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductList(ps))
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	ps, err := h.uc.List(c.Request.Context())
	h.list(c, ps, err)
}

// Offers handles GET /api/products/offers.
func (h *ProductHandler) Offers(c *gin.Context) {
	ps, err := h.uc.ListOffers(c.Request.Context())
	h.list(c, ps, err)
}

// Search handles GET /api/products/search?q=.
func (h *ProductHandler) Search(c *gin.Context) {
	ps, err := h.uc.Search(c.Request.Context(), c.Query("q"))
	h.list(c, ps, err)
}

// ByCategory handles GET /api/products/category/:name.
func (h *ProductHandler) ByCategory(c *gin.Context) {
	ps, err := h.uc.ListByCategoryName(c.Request.Context(), c.Param("name"))
	h.list(c, ps, err)
}

// Latest handles GET /api/products/latest/new.
func (h *ProductHandler) Latest(c *gin.Context) {
	ps, err := h.uc.Latest(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.ProductSummaryRes, 0, len(ps))
	for _, p := range ps {
		out = append(out, dto.ProductSummaryRes{ID: p.ID, Name: p.Name, Image: p.ImageURL})
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductRes(p))
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "name, price, imageUrl and category are required", gin.H{"detail": err.Error()})
		return
	}
	p, err := h.uc.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("product created", "product_id", p.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewProductRes(p))
}

// Update handles PUT /api/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request", gin.H{"detail": err.Error()})
		return
	}
	p, err := h.uc.Update(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("product updated", "product_id", p.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewProductRes(p))
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("product deleted", "product_id", c.Param("id"), "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Message: "product deleted"})
}
