package user

import (
	"time"

	"gorm.io/gorm"
)

// User 定义了用户的持久化模型。
// 身份认证委托给外部的OAuth身份服务，这里只保存业务需要的最小信息。
type User struct {
	// ID 是用户的主键，由身份服务签发的UUID。
	ID string `gorm:"primarykey;type:varchar(36)" json:"id"`

	// Email 用于排名变动通知和Paystack结账。
	Email string `gorm:"index" json:"email"`

	// Country 是ISO 3166-1两位国家代码，决定支付提供商的路由。
	Country string `gorm:"type:varchar(2)" json:"country"`

	// 由GORM自动管理
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
