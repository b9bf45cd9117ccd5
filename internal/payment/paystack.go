package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
)

// ErrPaystackNotConfigured 表示未配置Paystack密钥
var ErrPaystackNotConfigured = errors.New("Paystack is not configured")

// paystackHTTPClient 是访问Paystack API的共享HTTP客户端
var paystackHTTPClient = &http.Client{Timeout: 30 * time.Second}

// paystackMetadata 是随交易传递并在verify时取回的业务字段
type paystackMetadata struct {
	UserID    string `json:"userId"`
	PackageID string `json:"packageId"`
	XpAmount  string `json:"xpAmount"`
}

type paystackInitializeRequest struct {
	Email       string           `json:"email"`
	Amount      int64            `json:"amount"`
	Currency    string           `json:"currency"`
	Metadata    paystackMetadata `json:"metadata"`
	CallbackURL string           `json:"callback_url"`
}

type paystackInitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string           `json:"status"`
		Amount   int64            `json:"amount"`
		Metadata paystackMetadata `json:"metadata"`
	} `json:"data"`
}

// initializePaystackTransaction 发起一笔Paystack交易，返回reference和跳转地址
func initializePaystackTransaction(ctx context.Context, userID, packageID string, xpAmount int, price float64, email string) (reference, authorizationURL string, err error) {
	cfg := config.Cfg.Payment.Paystack
	if cfg.SecretKey == "" {
		return "", "", ErrPaystackNotConfigured
	}

	body, err := json.Marshal(paystackInitializeRequest{
		Email:    email,
		Amount:   int64(price*100 + 0.5),
		Currency: "USD",
		Metadata: paystackMetadata{
			UserID:    userID,
			PackageID: packageID,
			XpAmount:  fmt.Sprintf("%d", xpAmount),
		},
		CallbackURL: config.Cfg.Server.AppURL + "/api/payments/callback?provider=paystack",
	})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := paystackHTTPClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("Paystack初始化请求失败: %w", err)
	}
	defer resp.Body.Close()

	var parsed paystackInitializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", fmt.Errorf("Paystack初始化响应解析失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Status {
		if parsed.Message != "" {
			return "", "", fmt.Errorf("Paystack初始化被拒绝: %s", parsed.Message)
		}
		return "", "", errors.New("Failed to initialize Paystack transaction")
	}

	return parsed.Data.Reference, parsed.Data.AuthorizationURL, nil
}

// verifyPaystackTransaction 远程核验一笔Paystack交易的最终状态
func verifyPaystackTransaction(ctx context.Context, reference string) (*paystackVerifyResponse, error) {
	cfg := config.Cfg.Payment.Paystack
	if cfg.SecretKey == "" {
		return nil, ErrPaystackNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)

	resp, err := paystackHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Paystack核验请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("Failed to verify Paystack transaction")
	}

	var parsed paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("Paystack核验响应解析失败: %w", err)
	}
	return &parsed, nil
}
