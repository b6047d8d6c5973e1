package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the identity of the calling service account.
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
