package payment

import (
	"errors"
	"fmt"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

// ErrStripeNotConfigured 表示未配置Stripe密钥
var ErrStripeNotConfigured = errors.New("Stripe is not configured")

// InitStripe 在启动时装载Stripe密钥
func InitStripe(cfg config.StripeConfig) {
	if cfg.Configured() {
		stripe.Key = cfg.SecretKey
	}
}

// createStripeCheckoutSession 创建一个Stripe结账会话。
// session id同时作为购买记录的TransactionID，webhook凭它对账。
func createStripeCheckoutSession(userID, packageID string, xpAmount int, price float64) (sessionID, url string, err error) {
	if !config.Cfg.Payment.Stripe.Configured() {
		return "", "", ErrStripeNotConfigured
	}

	appURL := config.Cfg.Server.AppURL
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%d XP", xpAmount)),
						Description: stripe.String("Culling Game XP Purchase"),
					},
					// 美元转美分
					UnitAmount: stripe.Int64(int64(price*100 + 0.5)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(appURL + "/dashboard?payment=success"),
		CancelURL:  stripe.String(appURL + "/dashboard?payment=cancelled"),
	}
	params.AddMetadata("userId", userID)
	params.AddMetadata("packageId", packageID)
	params.AddMetadata("xpAmount", fmt.Sprintf("%d", xpAmount))

	s, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("创建Stripe结账会话失败: %w", err)
	}
	return s.ID, s.URL, nil
}

// verifyStripeWebhook 校验webhook签名并解析事件
func verifyStripeWebhook(payload []byte, signature string) (stripe.Event, error) {
	secret := config.Cfg.Payment.Stripe.WebhookSecret
	if secret == "" {
		return stripe.Event{}, errors.New("Stripe webhook secret not configured")
	}
	return webhook.ConstructEvent(payload, signature, secret)
}
