// Package auth mints and verifies the HS256 access tokens that carry
// {userId, role}.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
)

// AccessTokenPayload is what a caller supplies to mint a token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	JTI    string
}

func (p AccessTokenPayload) validate() error {
	if p.UserID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	if !p.Role.IsValid() {
		return fmt.Errorf("invalid user role %q", p.Role)
	}
	return nil
}

// AccessTokenClaims is the decoded token.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"userId"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (c AccessTokenClaims) IsAdmin() bool {
	return c.Role == enums.UserRoleAdmin
}

func (c AccessTokenClaims) validate() error {
	if c.UserID == uuid.Nil {
		return fmt.Errorf("token missing user id")
	}
	if !c.Role.IsValid() {
		return fmt.Errorf("token carries unknown role %q", c.Role)
	}
	if c.Subject != "" && c.Subject != c.UserID.String() {
		return fmt.Errorf("token subject does not match user id")
	}
	return nil
}
