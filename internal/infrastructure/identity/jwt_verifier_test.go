package identity

import (
	"context"
	"testing"

	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTVerifier(t *testing.T) {
	token, err := jwt.Generate("secret", "user-1", "a@b.com", "tiendapp-api", 5)
	require.NoError(t, err)

	sub, err := NewJWTVerifier("secret", "tiendapp-api").Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestJWTVerifier_FirmaInvalida(t *testing.T) {
	token, err := jwt.Generate("otro", "user-1", "a@b.com", "tiendapp-api", 5)
	require.NoError(t, err)

	_, err = NewJWTVerifier("secret", "tiendapp-api").Verify(context.Background(), token)
	assert.ErrorIs(t, err, access.ErrInvalidToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestJWTVerifier_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewJWTVerifier("secret", "").Verify(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
