package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating an administrator.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminInfo describes the authenticated administrator in responses.
type AdminInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResponse returns the issued token and admin identity.
type LoginResponse struct {
	Token string    `json:"token"`
	Admin AdminInfo `json:"admin"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
