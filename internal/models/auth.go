package models

import "github.com/golang-jwt/jwt/v5"

// TokenRequest is the payload exchanged for a bearer token after the client signs in.
// Only email and name are signed; any other field in the body is discarded.
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// TokenResponse wraps an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// JWTClaims represents the bearer token payload.
type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// RoleCheck answers the role checks used by the client to pick a dashboard.
type RoleCheck struct {
	Admin      *bool `json:"admin,omitempty"`
	Instructor *bool `json:"instructor,omitempty"`
}
