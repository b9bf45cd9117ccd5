package ranking

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/oracle"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// recomputeMu 保证同一时刻只有一次全量重排在进行
var recomputeMu sync.Mutex

// LeaderboardEntry 是排行榜上单个角色的公开视图
type LeaderboardEntry struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Grade       oracle.Grade `json:"grade"`
	Wins        int          `json:"wins"`
	Losses      int          `json:"losses"`
	EnergyLevel int          `json:"energyLevel"`
	Ranking     int          `json:"ranking"`
}

// LeaderboardPage 是分页后的排行榜
type LeaderboardPage struct {
	Entries  []LeaderboardEntry `json:"entries"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Total    int64              `json:"total"`
	HasMore  bool               `json:"hasMore"`
}

// Recompute 对全量角色做一次确定性的重新排名。
// 比较器：胜场降序 > 败场升序 > 咒力降序 > 创建时间升序。
// 名次变化的角色会记录previousRanking，重排完成后刷新Redis镜像
// 并对名次下滑的角色发送尽力而为的通知。
func Recompute() error {
	recomputeMu.Lock()
	defer recomputeMu.Unlock()

	var characters []character.Character
	err := database.DB.
		Order("wins desc").Order("losses asc").
		Order("energy_level desc").Order("created_at asc").
		Find(&characters).Error
	if err != nil {
		return fmt.Errorf("无法加载全量角色: %w", err)
	}
	if len(characters) == 0 {
		return nil
	}

	type movement struct {
		characterID string
		name        string
		userID      string
		oldRank     int
		newRank     int
	}
	var movements []movement

	// 只更新名次发生变化的角色，previousRanking记录变化前的名次
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for i := range characters {
			newRank := i + 1
			c := &characters[i]
			if c.Ranking == newRank {
				continue
			}

			oldRank := c.Ranking
			if err := tx.Model(&character.Character{}).
				Where("id = ?", c.ID).
				Updates(map[string]interface{}{
					"ranking":          newRank,
					"previous_ranking": oldRank,
				}).Error; err != nil {
				return fmt.Errorf("无法更新角色 %s 的名次: %w", c.ID, err)
			}

			c.PreviousRanking = oldRank
			c.Ranking = newRank
			movements = append(movements, movement{
				characterID: c.ID,
				name:        c.Name,
				userID:      c.UserID,
				oldRank:     oldRank,
				newRank:     newRank,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 镜像刷新失败只降级，不影响已经落地的名次
	if err := refreshMirror(characters); err != nil {
		logger.L.Warnw("排行榜Redis镜像刷新失败", "error", err)
		database.UpdateRedisStatus(false)
	} else {
		database.UpdateRedisStatus(true)
	}

	// 只通知严格下滑的角色（从已有名次跌到更低名次）
	for _, m := range movements {
		if m.oldRank <= 0 || m.newRank <= m.oldRank {
			continue
		}
		owner, err := user.GetByID(m.userID)
		if err != nil || owner.Email == "" {
			continue
		}
		QueueRankMovement(RankMovement{
			Email:         owner.Email,
			CharacterName: m.name,
			OldRank:       m.oldRank,
			NewRank:       m.newRank,
		})
	}

	return nil
}

// refreshMirror 用最新的全量名次重建Redis镜像
func refreshMirror(characters []character.Character) error {
	if !database.IsRedisHealthy() {
		return fmt.Errorf("redis当前不可用")
	}

	members := make([]redis.Z, 0, len(characters))
	entries := make(map[string]interface{}, len(characters))
	for i := range characters {
		c := &characters[i]
		entry := LeaderboardEntry{
			ID:          c.ID,
			Name:        c.Name,
			Grade:       c.Grade,
			Wins:        c.Wins,
			Losses:      c.Losses,
			EnergyLevel: c.EnergyLevel,
			Ranking:     c.Ranking,
		}
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("无法序列化排行榜条目: %w", err)
		}
		members = append(members, redis.Z{Score: float64(c.Ranking), Member: c.ID})
		entries[c.ID] = payload
	}

	pipe := database.RDB.TxPipeline()
	pipe.Del(database.Ctx, RankingKey, EntriesKey)
	pipe.ZAdd(database.Ctx, RankingKey, members...)
	pipe.HSet(database.Ctx, EntriesKey, entries)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("无法写入排行榜镜像: %w", err)
	}
	return nil
}

// Leaderboard 分页读取排行榜。优先走Redis镜像，镜像不可用时退回SQL。
func Leaderboard(page, pageSize int) (*LeaderboardPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	if database.IsRedisHealthy() {
		result, err := leaderboardFromRedis(page, pageSize)
		if err == nil {
			return result, nil
		}
		logger.L.Warnw("从Redis读取排行榜失败，退回SQL", "error", err)
		database.UpdateRedisStatus(false)
	}

	return leaderboardFromSQL(page, pageSize)
}

func leaderboardFromRedis(page, pageSize int) (*LeaderboardPage, error) {
	total, err := database.RDB.ZCard(database.Ctx, RankingKey).Result()
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("排行榜镜像为空")
	}

	start := int64((page - 1) * pageSize)
	stop := start + int64(pageSize) - 1
	ids, err := database.RDB.ZRange(database.Ctx, RankingKey, start, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	if len(ids) > 0 {
		raw, err := database.RDB.HMGet(database.Ctx, EntriesKey, ids...).Result()
		if err != nil {
			return nil, err
		}
		for _, item := range raw {
			payload, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("排行榜镜像条目缺失")
			}
			var entry LeaderboardEntry
			if err := json.Unmarshal([]byte(payload), &entry); err != nil {
				return nil, fmt.Errorf("排行榜镜像条目损坏: %w", err)
			}
			entries = append(entries, entry)
		}
	}

	return &LeaderboardPage{
		Entries:  entries,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  start+int64(len(entries)) < total,
	}, nil
}

func leaderboardFromSQL(page, pageSize int) (*LeaderboardPage, error) {
	var total int64
	if err := database.DB.Model(&character.Character{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("无法统计角色数量: %w", err)
	}

	var entries []LeaderboardEntry
	err := database.DB.Model(&character.Character{}).
		Select("id", "name", "grade", "wins", "losses", "energy_level", "ranking").
		Order("wins desc").Order("losses asc").
		Order("energy_level desc").Order("created_at asc").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("无法从SQL读取排行榜: %w", err)
	}

	return &LeaderboardPage{
		Entries:  entries,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  int64((page-1)*pageSize+len(entries)) < total,
	}, nil
}
