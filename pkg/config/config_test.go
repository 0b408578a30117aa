package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, AuthProviderJWT, cfg.Auth.Provider)
	assert.Equal(t, 5*time.Second, cfg.DB.QueryTimeout)
	assert.Equal(t, 5*time.Second, cfg.Auth.IdentityTimeout)
	assert.Equal(t, 3, cfg.Jobs.SubscriptionNoticeDays)
	assert.Equal(t, 10.0, cfg.Jobs.NotifyRatePerSec)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("AUTH_PROVIDER", "Firebase")
	v.Set("DB_QUERY_TIMEOUT", "750ms")
	v.Set("IDENTITY_TIMEOUT", "2")
	v.Set("SUBSCRIPTION_NOTICE_DAYS", "7")
	v.Set("NOTIFY_RATE_PER_SEC", "2.5")
	v.Set("HTTP_PORT", "9000")

	cfg := fromViper(v)

	assert.False(t, cfg.App.IsDevelopment())
	assert.Equal(t, AuthProviderFirebase, cfg.Auth.Provider)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.QueryTimeout)
	assert.Equal(t, 2*time.Second, cfg.Auth.IdentityTimeout)
	assert.Equal(t, 7, cfg.Jobs.SubscriptionNoticeDays)
	assert.Equal(t, 2.5, cfg.Jobs.NotifyRatePerSec)
	assert.Equal(t, 9000, cfg.HTTP.Port)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "tienda", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/tienda?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}

func TestValidate(t *testing.T) {
	t.Run("jwt sin secret", func(t *testing.T) {
		cfg := fromViper(viper.New())
		require.Error(t, cfg.Validate())
	})

	t.Run("jwt con secret", func(t *testing.T) {
		v := viper.New()
		v.Set("JWT_SECRET", "s3cret")
		require.NoError(t, fromViper(v).Validate())
	})

	t.Run("firebase sin proyecto", func(t *testing.T) {
		v := viper.New()
		v.Set("AUTH_PROVIDER", "firebase")
		require.Error(t, fromViper(v).Validate())
	})

	t.Run("firebase con proyecto", func(t *testing.T) {
		v := viper.New()
		v.Set("AUTH_PROVIDER", "firebase")
		v.Set("FIREBASE_PROJECT_ID", "tiendapp")
		require.NoError(t, fromViper(v).Validate())
	})

	t.Run("proveedor desconocido", func(t *testing.T) {
		v := viper.New()
		v.Set("AUTH_PROVIDER", "ldap")
		v.Set("JWT_SECRET", "s3cret")
		err := fromViper(v).Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ldap")
	})
}
