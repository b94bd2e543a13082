package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/platform/http/respond"
)

// writeError maps catalog errors onto the shared error envelope.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		respond.BadRequest(c, err.Error(), nil)
	case errors.Is(err, usecase.ErrProductNotFound):
		respond.NotFound(c, "product not found")
	case errors.Is(err, usecase.ErrCategoryNotFound):
		respond.NotFound(c, "category not found")
	case errors.Is(err, usecase.ErrCategoryExists):
		respond.Error(c, http.StatusConflict, api.CodeConflict, "a category with that name already exists", nil)
	case errors.Is(err, usecase.ErrCategoryInUse):
		respond.Error(c, http.StatusUnprocessableEntity, api.CodeCategoryInUse, err.Error(), nil)
	default:
		respond.Internal(c, err)
	}
}
