package fight

import (
	"time"

	"github.com/SlpAus/culling-game-backend/internal/oracle"
)

// FightResult 定义了数据库中一场对战的记录。
// 记录一旦创建就不可变——战报是历史，不随角色后续的变化而改写。
type FightResult struct {
	// ID 是对战记录的主键UUID
	ID string `gorm:"primarykey;type:varchar(36)" json:"id"`

	// Character1ID 是挑战方角色ID
	Character1ID string `gorm:"index;not null;type:varchar(36)" json:"character1Id"`

	// Character2ID 是应战方角色ID
	Character2ID string `gorm:"index;not null;type:varchar(36)" json:"character2Id"`

	WinnerID string `gorm:"index;not null;type:varchar(36)" json:"winnerId"`
	LoserID  string `gorm:"index;not null;type:varchar(36)" json:"loserId"`

	// SummaryTitle 和 SummaryNarrative 是战报的列式冗余，便于列表查询
	SummaryTitle     string `json:"summaryTitle"`
	SummaryNarrative string `json:"summaryNarrative"`

	// SummaryPayload 是Oracle裁决的完整结构化战报，JSON列
	SummaryPayload oracle.BattleSummary `gorm:"serializer:json" json:"summaryPayload"`

	// Round 固定为1，1v1对战没有多轮概念
	Round int `json:"round"`

	// OccurredAt 是对战结算的时间
	OccurredAt time.Time `gorm:"index" json:"occurredAt"`

	CreatedAt time.Time `json:"-"`
}
