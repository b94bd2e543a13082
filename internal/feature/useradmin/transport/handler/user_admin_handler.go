// Package handler exposes user administration over HTTP. Every route requires the admin role.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/auth/domain/entity"
	authdto "shop_backend/internal/feature/auth/transport/http/dto"
	"shop_backend/internal/feature/useradmin/transport/http/dto"
	"shop_backend/internal/feature/useradmin/usecase"
	"shop_backend/internal/platform/http/respond"
	jwtmw "shop_backend/internal/platform/jwt"
)

type UserAdminUsecase interface {
	CreateOperative(ctx context.Context, name, email, password string) (*entity.User, error)
	ListOperatives(ctx context.Context) ([]*entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	UpdateUser(ctx context.Context, actorID, id string, in usecase.UserUpdate) (*entity.User, error)
	DeleteOperative(ctx context.Context, actorID, id string) error
}

type UserAdminHandler struct {
	uc UserAdminUsecase
}

func NewUserAdminHandler(uc UserAdminUsecase) *UserAdminHandler {
	return &UserAdminHandler{uc: uc}
}

// CreateOperative handles POST /api/admin/operatives.
func (h *UserAdminHandler) CreateOperative(c *gin.Context) {
	var req dto.CreateOperativeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request", gin.H{"detail": err.Error()})
		return
	}
	u, err := h.uc.CreateOperative(c.Request.Context(), req.Name, string(req.Email), req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	actor, _ := jwtmw.UserID(c)
	slog.Info("operative created", "user_id", u.ID, "by", actor, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, authdto.NewUserRes(u))
}

// ListOperatives handles GET /api/admin/operatives.
func (h *UserAdminHandler) ListOperatives(c *gin.Context) {
	users, err := h.uc.ListOperatives(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]authdto.UserRes, 0, len(users))
	for _, u := range users {
		out = append(out, authdto.NewUserRes(u))
	}
	c.JSON(http.StatusOK, out)
}

// GetUser handles GET /api/admin/users/:id.
func (h *UserAdminHandler) GetUser(c *gin.Context) {
	u, err := h.uc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, authdto.NewUserRes(u))
}

// UpdateUser handles PUT /api/admin/users/:id.
func (h *UserAdminHandler) UpdateUser(c *gin.Context) {
	actor, ok := jwtmw.UserID(c)
	if !ok {
		respond.Unauthenticated(c)
		return
	}
	var req dto.UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request", gin.H{"detail": err.Error()})
		return
	}
	u, err := h.uc.UpdateUser(c.Request.Context(), actor, c.Param("id"), usecase.UserUpdate{
		Name:  req.Name,
		Email: string(req.Email),
		Role:  entity.Role(req.Role),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("user updated", "user_id", u.ID, "role", u.Role, "by", actor, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, authdto.NewUserRes(u))
}

// DeleteOperative handles DELETE /api/admin/operatives/:id.
func (h *UserAdminHandler) DeleteOperative(c *gin.Context) {
	actor, ok := jwtmw.UserID(c)
	if !ok {
		respond.Unauthenticated(c)
		return
	}
	if err := h.uc.DeleteOperative(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("operative deleted", "user_id", c.Param("id"), "by", actor, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Message: "operative deleted"})
}

func (h *UserAdminHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrSelfDeletion),
		errors.Is(err, usecase.ErrNotOperative):
		respond.BadRequest(c, err.Error(), nil)
	case errors.Is(err, usecase.ErrUserNotFound):
		respond.NotFound(c, "user not found")
	case errors.Is(err, usecase.ErrSelfDemotion):
		respond.Error(c, http.StatusForbidden, api.CodeForbidden, err.Error(), nil)
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		respond.Error(c, http.StatusConflict, api.CodeConflict, "email already registered", nil)
	default:
		respond.Internal(c, err)
	}
}
