// Package identity contiene los verificadores de credenciales (IdentityVerifier) del gate de acceso.
package identity

import (
	"context"
	"fmt"

	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/pkg/jwt"
)

var _ access.IdentityVerifier = (*JWTVerifier)(nil)

// JWTVerifier verifica los tokens HS256 emitidos por el propio login.
type JWTVerifier struct {
	secret string
	issuer string
}

// NewJWTVerifier construye el verificador con el secreto de firma.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: secret, issuer: issuer}
}

// Verify implementa access.IdentityVerifier.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sub, err := jwt.Parse(v.secret, v.issuer, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", access.ErrInvalidToken, err)
	}
	return sub, nil
}
