package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"stripe": map[string]any{
			"orderWebhookSecret": "",
			"secretKey":          "",
		},
		"payments": map[string]any{
			"idempotentWebhooks": true,
		},
		"http": map[string]any{
			"baseUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "STRIPE_ORDERWEBHOOKSECRET", want: "stripe.orderWebhookSecret"},
		{envKey: "STRIPE_SECRETKEY", want: "stripe.secretKey"},
		{envKey: "PAYMENTS_IDEMPOTENTWEBHOOKS", want: "payments.idempotentWebhooks"},
		{envKey: "HTTP_BASEURL", want: "http.baseUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}

func TestLoadWithEnv_OverlaysPrefixedEnvironment(t *testing.T) {
	dir := t.TempDir()
	yamlBody := []byte(`
http:
  port: 8080
  baseUrl: http://localhost:8080
stripe:
  currency: eur
  orderWebhookSecret: ""
jwt:
  ttl: 30m
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), yamlBody, 0o600))

	t.Setenv("FITHUB_HTTP_PORT", "9090")
	t.Setenv("FITHUB_STRIPE_ORDERWEBHOOKSECRET", "whsec_order")

	cfg, err := LoadWithEnv[Config]("test", dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:8080", cfg.HTTP.BaseURL)
	assert.Equal(t, "whsec_order", cfg.Stripe.OrderWebhookSecret)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv[Config]("does-not-exist", t.TempDir())
	assert.Error(t, err)
}

func TestCheckSecrets(t *testing.T) {
	newConfig := func(env, secret string) *Config {
		cfg := &Config{}
		cfg.Env.Env = env
		cfg.Session.Secret = secret
		cfg.JWT.Secret = secret
		return cfg
	}

	assert.NoError(t, newConfig("local", placeholderSecret).CheckSecrets())
	assert.NoError(t, newConfig("test", "").CheckSecrets())
	assert.NoError(t, newConfig("production", "s3cr3t-from-vault").CheckSecrets())

	err := newConfig("production", placeholderSecret).CheckSecrets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret, session.secret")

	cfg := newConfig("staging", "s3cr3t-from-vault")
	cfg.JWT.Secret = " "
	err = cfg.CheckSecrets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.NotContains(t, err.Error(), "session.secret")
}
