package fight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/oracle"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/ranking"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 对战经济常量：挑战方支付battleCost给应战方，胜者额外获得winReward
const (
	battleCost = 5
	winReward  = 5

	// 实战历练带来的咒力增长，胜者多于败者
	winnerEnergyGain = 10
	loserEnergyGain  = 5
)

// 对战的业务错误
var (
	ErrSelfChallenge  = errors.New("Cannot fight yourself")
	ErrFighterMissing = errors.New("One or both fighters not found")
)

// InsufficientXPError 表示挑战方的XP不足以支付挑战成本
type InsufficientXPError struct {
	Need int
	Have int
}

func (e *InsufficientXPError) Error() string {
	return fmt.Sprintf("Insufficient XP. You need %d XP to challenge, but you only have %d XP.", e.Need, e.Have)
}

// decider 是包级的对战裁决能力，启动时注入。
// 测试可以替换为确定性实现。
var decider oracle.Decider

// UseDecider 注入对战裁决实现
func UseDecider(d oracle.Decider) {
	decider = d
}

// ExecuteFight 执行一场完整的1v1对战并原子性地结算。
// 裁决发生在事务之外（Oracle调用可能耗时数十秒），
// 所有持久化变更发生在单个事务之内。
func ExecuteFight(ctx context.Context, challengerID, defenderID string) (*FightResult, error) {
	// 自我挑战在一切开销之前拒绝
	if challengerID == defenderID {
		return nil, ErrSelfChallenge
	}

	challenger, err := character.GetByID(challengerID)
	if err != nil {
		if errors.Is(err, character.ErrCharacterNotFound) {
			return nil, ErrFighterMissing
		}
		return nil, err
	}
	defender, err := character.GetByID(defenderID)
	if err != nil {
		if errors.Is(err, character.ErrCharacterNotFound) {
			return nil, ErrFighterMissing
		}
		return nil, err
	}

	// XP门槛在Oracle调用之前检查，不让注定失败的挑战浪费一次裁决
	if challenger.XP < battleCost {
		return nil, &InsufficientXPError{Need: battleCost, Have: challenger.XP}
	}

	// fighterA = 挑战方, fighterB = 应战方
	summary, err := decider.GenerateBattleSummary(ctx, challenger.FighterStats(), defender.FighterStats())
	if err != nil {
		return nil, fmt.Errorf("对战裁决失败: %w", err)
	}
	challengerWon := summary.Winner == oracle.WinnerFighterA

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成对战UUID: %w", err)
	}

	record := &FightResult{
		ID:               newUUID.String(),
		Character1ID:     challenger.ID,
		Character2ID:     defender.ID,
		SummaryTitle:     summary.Title,
		SummaryNarrative: summary.Narrative,
		SummaryPayload:   *summary,
		Round:            1,
		OccurredAt:       time.Now(),
	}
	if challengerWon {
		record.WinnerID = challenger.ID
		record.LoserID = defender.ID
	} else {
		record.WinnerID = defender.ID
		record.LoserID = challenger.ID
	}

	// 所有结算变更在单个事务中完成：战报、XP转移、胜负场次、咒力成长
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var lockedChallenger, lockedDefender character.Character

		// 锁定双方的行，防止与并发对战或支付入账互相踩踏
		query := tx
		if database.SupportsRowLocking() {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&lockedChallenger, "id = ?", challenger.ID).Error; err != nil {
			return ErrFighterMissing
		}
		if err := query.First(&lockedDefender, "id = ?", defender.ID).Error; err != nil {
			return ErrFighterMissing
		}

		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("无法创建对战记录: %w", err)
		}

		// XP转移：挑战方支付battleCost给应战方，胜者额外获得winReward
		challengerXpChange := -battleCost
		defenderXpChange := battleCost
		if challengerWon {
			challengerXpChange += winReward
			lockedChallenger.Wins++
			lockedDefender.Losses++
			lockedChallenger.EnergyLevel = character.CapEnergy(lockedChallenger.EnergyLevel, winnerEnergyGain)
			lockedDefender.EnergyLevel = character.CapEnergy(lockedDefender.EnergyLevel, loserEnergyGain)
		} else {
			defenderXpChange += winReward
			lockedDefender.Wins++
			lockedChallenger.Losses++
			lockedDefender.EnergyLevel = character.CapEnergy(lockedDefender.EnergyLevel, winnerEnergyGain)
			lockedChallenger.EnergyLevel = character.CapEnergy(lockedChallenger.EnergyLevel, loserEnergyGain)
		}

		lockedChallenger.XP += challengerXpChange
		lockedDefender.XP += defenderXpChange

		// 预检查通过后这里不应该触发，作为并发竞争下的最后防线
		if lockedChallenger.XP < 0 || lockedDefender.XP < 0 {
			logger.L.Errorw("对战结算出现负XP，事务回滚",
				"challenger", lockedChallenger.ID, "challengerXP", lockedChallenger.XP,
				"defender", lockedDefender.ID, "defenderXP", lockedDefender.XP)
			return errors.New("XP balance cannot be negative")
		}

		lockedChallenger.LastFoughtAt = &record.OccurredAt
		lockedDefender.LastFoughtAt = &record.OccurredAt

		if err := tx.Save(&lockedChallenger).Error; err != nil {
			return fmt.Errorf("无法更新挑战方: %w", err)
		}
		if err := tx.Save(&lockedDefender).Error; err != nil {
			return fmt.Errorf("无法更新应战方: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 排名重算在事务之外，失败不影响已经落地的结算
	if err := ranking.Recompute(); err != nil {
		logger.L.Warnw("对战后排名重算失败", "fightID", record.ID, "error", err)
	}

	return record, nil
}
