package user

import (
	"errors"
	"fmt"

	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetByID 按主键读取用户
func GetByID(id string) (*User, error) {
	var u User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// IsKnown 检查一个用户ID是否已经出现过。
// 优先查Redis缓存，缓存不可用时退回SQL查询。
func IsKnown(id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	if database.IsRedisHealthy() {
		exists, err := database.RDB.SIsMember(database.Ctx, KnownUsersKey, id).Result()
		if err == nil {
			return exists, nil
		}
		database.UpdateRedisStatus(false)
	}

	var count int64
	if err := database.DB.Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("查询用户是否存在时出错: %w", err)
	}
	return count > 0, nil
}

// UpdateCountry 更新用户的国家代码，影响后续的支付提供商路由
func UpdateCountry(id, country string) error {
	if err := database.DB.Model(&User{}).Where("id = ?", id).Update("country", country).Error; err != nil {
		return fmt.Errorf("无法更新用户 %s 的国家: %w", id, err)
	}
	return nil
}

// GetOrCreate 确保指定ID的用户记录存在，并刷新其email和国家。
// 身份服务每次签发会话时都会带上这两个字段，以它为准。
func GetOrCreate(id, email, country string) (*User, error) {
	u := User{ID: id, Email: email, Country: country}

	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "country"}),
	}).Create(&u).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("无法创建或更新用户 %s: %w", id, err)
	}

	// 缓存写入失败不阻塞请求，用户数据已经在SQL中落地
	if database.IsRedisHealthy() {
		if err := database.RDB.SAdd(database.Ctx, KnownUsersKey, id).Err(); err != nil {
			database.UpdateRedisStatus(false)
		}
	}

	return GetByID(id)
}
