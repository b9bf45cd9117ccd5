package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// secretKey 是用于会话签名的HMAC密钥。
// 它必须与签发会话Cookie的身份服务保持一致。
var secretKey []byte

// SessionPayload 定义了会话Cookie中被签名的数据结构。
// Email和Country由身份服务在签发时写入，后端据此惰性创建用户记录。
type SessionPayload struct {
	UserID    string `json:"u"`
	Email     string `json:"em,omitempty"`
	Country   string `json:"co,omitempty"`
	ExpiresAt int64  `json:"e"` // Unix时间戳
}

// NewSessionPayload 构造一个从现在起ttlSeconds后过期的会话payload。
func NewSessionPayload(userID, email, country string, ttlSeconds int64) SessionPayload {
	return SessionPayload{
		UserID:    userID,
		Email:     email,
		Country:   country,
		ExpiresAt: time.Now().Unix() + ttlSeconds,
	}
}

// InitializeKey 设置会话签名密钥。
// 传入空字符串时生成一个密码学安全的随机密钥——此时已有的会话全部失效，仅适合开发环境。
func InitializeKey(secret string) {
	if secret != "" {
		secretKey = []byte(secret)
		return
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("警告: 未配置会话密钥，已生成随机密钥（重启后所有会话失效）。")
}

// Sign 为一个SessionPayload生成完整的会话令牌。
// 令牌格式为 base64url(payload) + "." + base64url(HMAC-SHA256签名)。
func Sign(payload SessionPayload) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化会话payload")
	}

	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	signature := mac.Sum(nil)

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	encodedSignature := base64.RawURLEncoding.EncodeToString(signature)
	return encodedPayload + "." + encodedSignature, nil
}

// Verify 验证会话令牌的签名和有效期，成功时返回解码后的payload。
func Verify(tokenString string) (*SessionPayload, error) {
	parts := strings.SplitN(tokenString, ".", 2)
	if len(parts) != 2 {
		return nil, errors.New("令牌格式不正确")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errors.New("令牌payload解码失败")
	}
	actualSignature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.New("令牌签名解码失败")
	}

	// 重新计算预期的签名
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	expectedSignature := mac.Sum(nil)

	// 使用 hmac.Equal 进行时间恒定的比较，防止时序攻击
	if !hmac.Equal(expectedSignature, actualSignature) {
		return nil, errors.New("令牌签名不匹配")
	}

	var payload SessionPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, errors.New("令牌payload解析失败")
	}

	if payload.ExpiresAt > 0 && time.Now().Unix() > payload.ExpiresAt {
		return nil, errors.New("会话已过期")
	}

	return &payload, nil
}
