package dto

import openapi_types "github.com/oapi-codegen/runtime/types"

// RegisterReq is the body of POST /api/auth/register.
type RegisterReq struct {
	Name     string              `json:"name" binding:"required"`
	Email    openapi_types.Email `json:"email" binding:"required"`
	Password string              `json:"password" binding:"required,min=8"`
}
