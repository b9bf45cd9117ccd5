package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 支付相关的业务错误
var (
	ErrInvalidPackage = errors.New("Invalid package")
	ErrEmailRequired  = errors.New("Email required for Paystack payment")
)

// SessionResult 是创建结账会话的结果
type SessionResult struct {
	URL       string   `json:"url"`
	Reference string   `json:"reference"`
	Provider  Provider `json:"provider"`
}

// CreateSession 为用户创建一个结账会话：按国家路由提供商，
// 创建提供商侧的checkout，并落一条PENDING购买记录等待对账。
func CreateSession(ctx context.Context, userID, packageID string) (*SessionResult, error) {
	u, err := user.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("无法读取用户: %w", err)
	}

	pkg, ok := GetPackage(packageID)
	if !ok {
		return nil, ErrInvalidPackage
	}

	provider := GetProvider(u.Country)
	price := PackagePrice(pkg, provider)

	var reference, url string
	switch provider {
	case ProviderStripe:
		reference, url, err = createStripeCheckoutSession(u.ID, pkg.ID, pkg.Amount, price)
	case ProviderPaystack:
		if u.Email == "" {
			return nil, ErrEmailRequired
		}
		reference, url, err = initializePaystackTransaction(ctx, u.ID, pkg.ID, pkg.Amount, price, u.Email)
	}
	if err != nil {
		return nil, err
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成购买记录UUID: %w", err)
	}

	purchase := &XpPurchase{
		ID:            newUUID.String(),
		UserID:        u.ID,
		Amount:        pkg.Amount,
		Price:         price,
		Currency:      "USD",
		Provider:      provider,
		TransactionID: reference,
		Status:        StatusPending,
	}
	if err := database.DB.Create(purchase).Error; err != nil {
		return nil, fmt.Errorf("无法创建购买记录: %w", err)
	}

	return &SessionResult{URL: url, Reference: reference, Provider: provider}, nil
}

// ProcessSuccessfulPayment 对一笔成功的支付做幂等入账。
// 整个入账在单个事务中完成：webhook和callback可能对同一笔交易各送达多次，
// 无论重复多少次，XP只允许入账一次。
func ProcessSuccessfulPayment(userID string, provider Provider, transactionID, packageID string, xpAmount int, price float64) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var purchase XpPurchase

		// 按交易凭证锁定购买记录，并发的重复确认会在这里排队
		query := tx
		if database.SupportsRowLocking() {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := query.First(&purchase, "transaction_id = ?", transactionID).Error

		switch {
		case err == nil && purchase.Status == StatusCompleted:
			// 已经入账过，整个操作是无害的no-op
			logger.L.Infow("重复的支付确认，忽略", "transactionID", transactionID)
			return nil

		case err == nil:
			purchase.Status = StatusCompleted
			if err := tx.Save(&purchase).Error; err != nil {
				return fmt.Errorf("无法完成购买记录: %w", err)
			}

		case errors.Is(err, gorm.ErrRecordNotFound):
			// 正常流程不会走到这里：PENDING记录在创建会话时就落了库。
			// 但提供商的确认是最终事实，照单全收。
			newUUID, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("无法生成购买记录UUID: %w", err)
			}
			purchase = XpPurchase{
				ID:            newUUID.String(),
				UserID:        userID,
				Amount:        xpAmount,
				Price:         price,
				Currency:      "USD",
				Provider:      provider,
				TransactionID: transactionID,
				Status:        StatusCompleted,
			}
			logger.L.Warnw("支付确认没有对应的PENDING记录，直接入账",
				"transactionID", transactionID, "packageID", packageID)
			if err := tx.Create(&purchase).Error; err != nil {
				return fmt.Errorf("无法补建购买记录: %w", err)
			}

		default:
			return fmt.Errorf("无法查询购买记录: %w", err)
		}

		// 与购买一一对应的提供商侧交易记录
		txUUID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("无法生成交易记录UUID: %w", err)
		}
		record := PaymentTransaction{
			ID:            txUUID.String(),
			UserID:        purchase.UserID,
			XpPurchaseID:  purchase.ID,
			Amount:        purchase.Price,
			Currency:      purchase.Currency,
			Provider:      purchase.Provider,
			TransactionID: purchase.TransactionID,
			Status:        StatusCompleted,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "xp_purchase_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("无法记录交易: %w", err)
		}

		// 给用户的角色入账XP。用增量表达式而不是读改写，天然抗并发。
		result := tx.Model(&character.Character{}).
			Where("user_id = ?", purchase.UserID).
			Update("xp", gorm.Expr("xp + ?", purchase.Amount))
		if result.Error != nil {
			return fmt.Errorf("无法入账XP: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// 用户还没有角色，购买仍然成立，XP在角色创建后不补发
			logger.L.Warnw("支付入账时用户没有角色", "userID", purchase.UserID, "transactionID", transactionID)
		}

		return nil
	})
}

// TransactionPage 是分页后的购买历史
type TransactionPage struct {
	Transactions []XpPurchase `json:"transactions"`
	Total        int64        `json:"total"`
	HasMore      bool         `json:"hasMore"`
}

// ListTransactions 分页返回用户的购买历史
func ListTransactions(userID string, page, pageSize int) (*TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}

	var total int64
	if err := database.DB.Model(&XpPurchase{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("无法统计购买历史: %w", err)
	}

	var transactions []XpPurchase
	err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("无法查询购买历史: %w", err)
	}

	return &TransactionPage{
		Transactions: transactions,
		Total:        total,
		HasMore:      int64((page-1)*pageSize+len(transactions)) < total,
	}, nil
}
