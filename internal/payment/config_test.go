package payment

import (
	"testing"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
	"github.com/stretchr/testify/assert"
)

func withStripeConfigured(t *testing.T, configured bool) {
	t.Helper()
	original := config.Cfg
	t.Cleanup(func() { config.Cfg = original })

	cfg := &config.Config{}
	if configured {
		cfg.Payment.Stripe.SecretKey = "sk_test_xxx"
	}
	config.Cfg = cfg
}

func TestGetProvider(t *testing.T) {
	t.Run("Stripe未配置时一律走Paystack", func(t *testing.T) {
		withStripeConfigured(t, false)
		assert.Equal(t, ProviderPaystack, GetProvider("US"))
		assert.Equal(t, ProviderPaystack, GetProvider(""))
	})

	t.Run("名单内国家走Paystack", func(t *testing.T) {
		withStripeConfigured(t, true)
		assert.Equal(t, ProviderPaystack, GetProvider("NG"))
		assert.Equal(t, ProviderPaystack, GetProvider("ke")) // 大小写不敏感
	})

	t.Run("名单外国家走Stripe", func(t *testing.T) {
		withStripeConfigured(t, true)
		assert.Equal(t, ProviderStripe, GetProvider("US"))
		assert.Equal(t, ProviderStripe, GetProvider("JP"))
	})

	t.Run("未知国家默认走Stripe", func(t *testing.T) {
		withStripeConfigured(t, true)
		assert.Equal(t, ProviderStripe, GetProvider(""))
	})
}

func TestPackagePrice(t *testing.T) {
	pkg, ok := GetPackage("small")
	assert.True(t, ok)
	assert.Equal(t, 2.99, PackagePrice(pkg, ProviderStripe))
	assert.Equal(t, 2.39, PackagePrice(pkg, ProviderPaystack))

	_, ok = GetPackage("colossal")
	assert.False(t, ok)
}
