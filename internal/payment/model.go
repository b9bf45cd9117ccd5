package payment

import (
	"time"
)

// Provider 是支付提供商枚举
type Provider string

const (
	ProviderStripe   Provider = "STRIPE"
	ProviderPaystack Provider = "PAYSTACK"
)

// 购买记录的状态
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// XpPurchase 定义了一笔XP购买。
// TransactionID是提供商侧的唯一凭证（Stripe session id或Paystack reference），
// 它上面的唯一索引是重复入账的最后一道防线。
type XpPurchase struct {
	ID     string `gorm:"primarykey;type:varchar(36)" json:"id"`
	UserID string `gorm:"index;not null;type:varchar(36)" json:"userId"`

	// Amount 是购买的XP数量
	Amount int `json:"amount"`

	// Price 是成交价格（USD）
	Price    float64 `json:"price"`
	Currency string  `gorm:"type:varchar(8)" json:"currency"`

	Provider      Provider `gorm:"type:varchar(16)" json:"provider"`
	TransactionID string   `gorm:"uniqueIndex;not null" json:"transactionId"`
	Status        string   `gorm:"type:varchar(16);index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// PaymentTransaction 是与购买一一对应的提供商侧交易记录
type PaymentTransaction struct {
	ID     string `gorm:"primarykey;type:varchar(36)" json:"id"`
	UserID string `gorm:"index;not null;type:varchar(36)" json:"userId"`

	// XpPurchaseID 与XpPurchase一一对应
	XpPurchaseID string `gorm:"uniqueIndex;not null;type:varchar(36)" json:"xpPurchaseId"`

	Amount        float64  `json:"amount"`
	Currency      string   `gorm:"type:varchar(8)" json:"currency"`
	Provider      Provider `gorm:"type:varchar(16)" json:"provider"`
	TransactionID string   `gorm:"index;not null" json:"transactionId"`
	Status        string   `gorm:"type:varchar(16)" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
