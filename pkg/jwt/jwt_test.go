package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("s3cret", "user-1", "a@b.co", "tiendapp-api", 5)
	require.NoError(t, err)

	sub, err := Parse("s3cret", "tiendapp-api", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestParse_Rejects(t *testing.T) {
	good, err := Generate("s3cret", "user-1", "", "tiendapp-api", 5)
	require.NoError(t, err)
	expired, err := Generate("s3cret", "user-1", "", "tiendapp-api", -5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		issuer string
		token  string
	}{
		{"firma incorrecta", "otro", "tiendapp-api", good},
		{"emisor distinto", "s3cret", "otro-emisor", good},
		{"expirado", "s3cret", "tiendapp-api", expired},
		{"malformado", "s3cret", "", "no.es.jwt"},
		{"secret vacío", "", "", good},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.secret, tt.issuer, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_RequiresSubject(t *testing.T) {
	_, err := Generate("s3cret", "", "", "x", 5)
	assert.Error(t, err)
}
