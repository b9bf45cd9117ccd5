package payment

import (
	"strings"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
)

// XpPackage 定义了一档可购买的XP包。
// Paystack定价比Stripe低20%，对冲非洲市场的购买力差异。
type XpPackage struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Amount        int     `json:"amount"`
	PriceStripe   float64 `json:"priceStripe"`
	PricePaystack float64 `json:"pricePaystack"`
}

// xpPackages 是全部在售的XP包
var xpPackages = []XpPackage{
	{ID: "small", Name: "Small Pack", Amount: 100, PriceStripe: 2.99, PricePaystack: 2.39},
	{ID: "medium", Name: "Medium Pack", Amount: 250, PriceStripe: 6.99, PricePaystack: 5.59},
	{ID: "large", Name: "Large Pack", Amount: 500, PriceStripe: 12.99, PricePaystack: 10.39},
}

// paystackCountries 是走Paystack结算的国家允许名单
var paystackCountries = map[string]bool{
	"NG": true, // Nigeria
	"GH": true, // Ghana
	"KE": true, // Kenya
	"ZA": true, // South Africa
	"UG": true, // Uganda
	"TZ": true, // Tanzania
	"RW": true, // Rwanda
	"ZM": true, // Zambia
	"ZW": true, // Zimbabwe
	"SL": true, // Sierra Leone
	"GM": true, // Gambia
	"SN": true, // Senegal
	"CI": true, // Côte d'Ivoire
	"CM": true, // Cameroon
}

// Packages 返回全部在售的XP包
func Packages() []XpPackage {
	return xpPackages
}

// GetPackage 按ID查找XP包
func GetPackage(id string) (XpPackage, bool) {
	for _, pkg := range xpPackages {
		if pkg.ID == id {
			return pkg, true
		}
	}
	return XpPackage{}, false
}

// GetProvider 根据用户国家决定支付提供商。
// Stripe未配置时一律走Paystack；国家在允许名单内走Paystack；其余默认Stripe。
func GetProvider(country string) Provider {
	if !config.Cfg.Payment.Stripe.Configured() {
		return ProviderPaystack
	}
	if country == "" {
		return ProviderStripe
	}
	if paystackCountries[strings.ToUpper(country)] {
		return ProviderPaystack
	}
	return ProviderStripe
}

// PackagePrice 返回XP包在指定提供商下的价格
func PackagePrice(pkg XpPackage, provider Provider) float64 {
	if provider == ProviderPaystack {
		return pkg.PricePaystack
	}
	return pkg.PriceStripe
}
