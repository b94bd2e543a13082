// Package dto defines the request and response bodies of the auth endpoints.
package dto

import openapi_types "github.com/oapi-codegen/runtime/types"

// LoginReq is the body of POST /api/auth/login.
// Email fails to decode when it is not a valid address.
type LoginReq struct {
	Email    openapi_types.Email `json:"email" binding:"required"`
	Password string              `json:"password" binding:"required"`
}
