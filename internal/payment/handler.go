package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
)

// CreateSessionRequestBody 定义了创建结账会话的请求体
type CreateSessionRequestBody struct {
	PackageID string `json:"packageId" binding:"required"`
}

// CreateCheckoutSession 处理创建结账会话的请求
func CreateCheckoutSession(c *gin.Context) {
	var body CreateSessionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "packageId is required"})
		return
	}

	result, err := CreateSession(c.Request.Context(), user.CurrentUserID(c), body.PackageID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPackage):
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidPackage.Error()})
		case errors.Is(err, ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmailRequired.Error()})
		default:
			logger.L.Errorw("创建结账会话失败", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment session creation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleCallback 处理Paystack支付完成后的浏览器回跳。
// 回跳不可信，入账前必须先向Paystack远程核验交易状态。
func HandleCallback(c *gin.Context) {
	appURL := config.Cfg.Server.AppURL
	provider := c.Query("provider")
	reference := c.Query("reference")

	if provider != "paystack" || reference == "" {
		c.Redirect(http.StatusFound, appURL+"/dashboard?payment=error")
		return
	}

	verification, err := verifyPaystackTransaction(c.Request.Context(), reference)
	if err != nil {
		logger.L.Errorw("Paystack核验失败", "reference", reference, "error", err)
		c.Redirect(http.StatusFound, appURL+"/dashboard?payment=error")
		return
	}
	if verification.Data.Status != "success" {
		c.Redirect(http.StatusFound, appURL+"/dashboard?payment=failed")
		return
	}

	meta := verification.Data.Metadata
	xpAmount, _ := strconv.Atoi(meta.XpAmount)
	if meta.UserID == "" || meta.PackageID == "" || xpAmount <= 0 {
		c.Redirect(http.StatusFound, appURL+"/dashboard?payment=error")
		return
	}

	price := float64(verification.Data.Amount) / 100
	if err := ProcessSuccessfulPayment(meta.UserID, ProviderPaystack, reference, meta.PackageID, xpAmount, price); err != nil {
		logger.L.Errorw("Paystack入账失败", "reference", reference, "error", err)
		c.Redirect(http.StatusFound, appURL+"/dashboard?payment=error")
		return
	}

	c.Redirect(http.StatusFound, appURL+"/dashboard?payment=success")
}

// HandleStripeWebhook 处理Stripe的签名webhook。
// 只有checkout.session.completed会触发入账，其余事件确认收到即可。
func HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No signature"})
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	event, err := verifyStripeWebhook(payload, signature)
	if err != nil {
		logger.L.Warnw("Stripe webhook签名校验失败", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook handler failed"})
		return
	}

	if event.Type != "checkout.session.completed" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook handler failed"})
		return
	}

	userID := session.Metadata["userId"]
	packageID := session.Metadata["packageId"]
	xpAmount, _ := strconv.Atoi(session.Metadata["xpAmount"])
	if userID == "" || packageID == "" || xpAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing metadata"})
		return
	}

	pkg, _ := GetPackage(packageID)
	if err := ProcessSuccessfulPayment(userID, ProviderStripe, session.ID, packageID, xpAmount, pkg.PriceStripe); err != nil {
		logger.L.Errorw("Stripe入账失败", "sessionID", session.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// GetTransactions 分页返回当前用户的购买历史
func GetTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	result, err := ListTransactions(user.CurrentUserID(c), page, pageSize)
	if err != nil {
		logger.L.Errorw("查询购买历史失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPackages 返回全部在售的XP包及当前用户的提供商路由
func GetPackages(c *gin.Context) {
	u, err := user.GetByID(user.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packages": Packages(),
		"provider": GetProvider(u.Country),
	})
}
