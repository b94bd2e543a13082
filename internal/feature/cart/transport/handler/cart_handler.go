package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/cart/transport/http/dto"
	"shop_backend/internal/feature/cart/usecase"
	"shop_backend/internal/platform/http/respond"
	jwtmw "shop_backend/internal/platform/jwt"
)

// CartUsecase defines the cart operations the handler depends on.
type CartUsecase interface {
	GetCart(ctx context.Context, userID string) (*usecase.View, error)
	MergeGuestCart(ctx context.Context, userID string, guest []usecase.ItemInput) (*usecase.View, error)
	AddItem(ctx context.Context, userID string, in usecase.ItemInput) (*usecase.View, error)
	ReplaceCart(ctx context.Context, userID string, in []usecase.ItemInput) (*usecase.View, error)
	RemoveItem(ctx context.Context, userID, productID string) (*usecase.View, error)
	ClearCart(ctx context.Context, userID string) (*usecase.View, error)
	Checkout(ctx context.Context, userID string) (*usecase.CheckoutResult, error)
}

type CartHandler struct {
	uc CartUsecase
}

func NewCartHandler(uc CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// user returns the authenticated user id or writes 401.
func user(c *gin.Context) (string, bool) {
	id, ok := jwtmw.UserID(c)
	if !ok || id == "" {
		respond.Unauthenticated(c)
		return "", false
	}
	return id, true
}

func (h *CartHandler) reply(c *gin.Context, v *usecase.View, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartRes(v))
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	uid, ok := user(c)
	if !ok {
		return
	}
	v, err := h.uc.GetCart(c.Request.Context(), uid)
	h.reply(c, v, err)
}

// Merge handles POST /api/cart/merge.
func (h *CartHandler) Merge(c *gin.Context) {
	uid, ok := user(c)
	if !ok {
		return
	}
	var req dto.MergeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "guestCart must be a list of {productId, quantity}", nil)
		return
	}
	v, err := h.uc.MergeGuestCart(c.Request.Context(), uid, req.ToInputs())
	h.reply(c, v, err)
}

// Add handles POST /api/cart/add.
func (h *CartHandler) Add(c *gin.Context) {
	uid, ok := user(c)
	if !ok {
		return
	}
	var req dto.ItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "body must be {productId, quantity}", nil)
		return
	}
	v, err := h.uc.AddItem(c.Request.Context(), uid, req.ToInput())
	h.reply(c, v, err)
}

// Replace handles POST /api/cart/update.
func (h *CartHandler) Replace(c *gin.Context) {
	uid, ok := user(c)
	if !ok {
		return
	}
	var req dto.ReplaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "products must be a list of {productId, quantity}", nil)
		return
	}
	v, err := h.uc.ReplaceCart(c.Request.Context(), uid, req.ToInputs())
	h.reply(c, v, err)
}

// Remove handles DELETE /api/cart/remove/:productId.
func (h *CartHandler) Remove(c *gin.Context) {
	uid, ok := user(c)
	if !ok {
		return
	}
	v, err := h.uc.RemoveItem(c.Request.Context(), uid, c.Param("productId"))
	h.reply(c, v, err)
}

// Clear handles DELETE /api/cart/clear.
func (h *CartHandler) Clear(c *gin.Context) {
	uid, ok := user(c)
	if !ok {
		return
	}
	v, err := h.uc.ClearCart(c.Request.Context(), uid)
	h.reply(c, v, err)
}

// Checkout handles POST /api/cart/checkout.
func (h *CartHandler) Checkout(c *gin.Context) {
	uid, ok := user(c)
	if !ok {
		return
	}
	res, err := h.uc.Checkout(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCheckoutRes(res))
}

func writeError(c *gin.Context, err error) {
	var batch *usecase.BatchValidationError
	var stock *usecase.InsufficientStockError
	switch {
	case errors.As(err, &batch):
		respond.BadRequest(c, "one or more cart items are invalid", gin.H{"invalidItems": batch.Items})
	case errors.Is(err, usecase.ErrInvalidInput):
		respond.BadRequest(c, err.Error(), nil)
	case errors.Is(err, usecase.ErrProductNotFound):
		respond.NotFound(c, "product not found")
	case errors.As(err, &stock):
		respond.Error(c, http.StatusUnprocessableEntity, api.CodeInsufficientStock, stock.Error(), gin.H{
			"productId": stock.ProductID,
			"name":      stock.Name,
			"available": stock.Available,
			"requested": stock.Requested,
		})
	case errors.Is(err, usecase.ErrCartEmpty):
		respond.Error(c, http.StatusUnprocessableEntity, api.CodeCartEmpty, "cart is empty", nil)
	default:
		respond.Internal(c, err)
	}
}
