package dto

import "github.com/golang-jwt/jwt/v5"

// AuthClaims are the JWT claims carried by an access token
type AuthClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
