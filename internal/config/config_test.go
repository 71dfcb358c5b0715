package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("UPI_ID", "merchant@upi")
	t.Setenv("ADMIN_SECRET", "op-secret")
	t.Setenv("VERIFY_PAYMENTS", "true")
	t.Setenv("DB_DSN", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "merchant@upi", cfg.UPIID)
	assert.Equal(t, "ValentineGift", cfg.UPIPayee)
	assert.True(t, cfg.VerifyPayments)
	assert.Empty(t, cfg.DBDSN)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 10080, cfg.JWTExpiresMin)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Panics(t, func() { Load() })
}
