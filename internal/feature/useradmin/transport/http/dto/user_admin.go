// Package dto defines the request bodies of the user administration endpoints.
package dto

import openapi_types "github.com/oapi-codegen/runtime/types"

// CreateOperativeReq is the body of POST /api/admin/operatives.
type CreateOperativeReq struct {
	Name     string              `json:"name" binding:"required"`
	Email    openapi_types.Email `json:"email" binding:"required"`
	Password string              `json:"password" binding:"required,min=8"`
}

// UpdateUserReq is the body of PUT /api/admin/users/:id.
type UpdateUserReq struct {
	Name  string              `json:"name" binding:"required"`
	Email openapi_types.Email `json:"email" binding:"required"`
	Role  string              `json:"role" binding:"required,oneof=admin operative customer"`
}
