package fight

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/oracle"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubDecider 是可控胜负的裁决桩，记录被调用的次数
type stubDecider struct {
	winner string
	calls  int
}

func (d *stubDecider) GenerateBattleSummary(_ context.Context, a, b oracle.FighterStats) (*oracle.BattleSummary, error) {
	d.calls++
	return &oracle.BattleSummary{
		Winner:              d.winner,
		Title:               fmt.Sprintf("%s vs %s", a.Name, b.Name),
		Opening:             "The fight begins.",
		TechniquesUsed:      []string{a.CursedTechnique},
		WeaknessesExploited: []string{"Opening guard"},
		TurningPoints:       []string{"A sudden reversal."},
		FinalBlow:           "A decisive strike.",
		ReasonForVictory:    "Sheer output.",
		Narrative:           strings.Repeat("The two fighters clashed under the rules of the Culling Game. ", 2),
	}, nil
}

// setupFightDB 为每个测试准备一个独立的内存数据库
func setupFightDB(t *testing.T, name string) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &character.Character{}, &FightResult{}))
	database.DB = db
	// 测试环境没有Redis，排行榜镜像直接降级
	database.UpdateRedisStatus(false)
}

func seedFighter(t *testing.T, id string, xp, energy int) *character.Character {
	t.Helper()
	c := &character.Character{
		ID:              id,
		UserID:          "user-" + id,
		Name:            "Fighter " + id,
		Grade:           oracle.Grade2,
		CursedTechnique: strings.Repeat("technique ", 6),
		EnergyLevel:     energy,
		XP:              xp,
	}
	require.NoError(t, database.DB.Create(c).Error)
	return c
}

func reload(t *testing.T, id string) *character.Character {
	t.Helper()
	var c character.Character
	require.NoError(t, database.DB.First(&c, "id = ?", id).Error)
	return &c
}

func TestExecuteFightChallengerWins(t *testing.T) {
	setupFightDB(t, "fight_challenger_wins")
	seedFighter(t, "c1", 50, 1000)
	seedFighter(t, "c2", 50, 1000)

	d := &stubDecider{winner: oracle.WinnerFighterA}
	UseDecider(d)

	record, err := ExecuteFight(context.Background(), "c1", "c2")
	require.NoError(t, err)
	require.Equal(t, 1, d.calls)
	assert.Equal(t, "c1", record.WinnerID)
	assert.Equal(t, "c2", record.LoserID)

	challenger := reload(t, "c1")
	defender := reload(t, "c2")

	// 挑战方支付5点挑战成本，获胜赢回5点，净变化为0；应战方收取5点
	assert.Equal(t, 50, challenger.XP)
	assert.Equal(t, 55, defender.XP)

	assert.Equal(t, 1, challenger.Wins)
	assert.Equal(t, 0, challenger.Losses)
	assert.Equal(t, 0, defender.Wins)
	assert.Equal(t, 1, defender.Losses)

	// 实战历练：胜者+10，败者+5
	assert.Equal(t, 1010, challenger.EnergyLevel)
	assert.Equal(t, 1005, defender.EnergyLevel)

	require.NotNil(t, challenger.LastFoughtAt)
	require.NotNil(t, defender.LastFoughtAt)

	// 对战后全量重排：胜者第1，败者第2
	assert.Equal(t, 1, challenger.Ranking)
	assert.Equal(t, 2, defender.Ranking)
}

func TestExecuteFightChallengerLoses(t *testing.T) {
	setupFightDB(t, "fight_challenger_loses")
	seedFighter(t, "c1", 50, 1000)
	seedFighter(t, "c2", 50, 1000)

	d := &stubDecider{winner: oracle.WinnerFighterB}
	UseDecider(d)

	record, err := ExecuteFight(context.Background(), "c1", "c2")
	require.NoError(t, err)
	assert.Equal(t, "c2", record.WinnerID)
	assert.Equal(t, "c1", record.LoserID)

	challenger := reload(t, "c1")
	defender := reload(t, "c2")

	// 挑战失败：挑战成本尽数归应战方，胜利奖励也归应战方
	assert.Equal(t, 45, challenger.XP)
	assert.Equal(t, 60, defender.XP)

	assert.Equal(t, 1, challenger.Losses)
	assert.Equal(t, 1, defender.Wins)
	assert.Equal(t, 1005, challenger.EnergyLevel)
	assert.Equal(t, 1010, defender.EnergyLevel)
}

func TestExecuteFightInsufficientXP(t *testing.T) {
	setupFightDB(t, "fight_insufficient_xp")
	seedFighter(t, "c1", 4, 1000)
	seedFighter(t, "c2", 50, 1000)

	d := &stubDecider{winner: oracle.WinnerFighterA}
	UseDecider(d)

	_, err := ExecuteFight(context.Background(), "c1", "c2")
	var insufficientErr *InsufficientXPError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "Insufficient XP. You need 5 XP to challenge, but you only have 4 XP.", err.Error())

	// 门槛检查发生在Oracle调用之前
	assert.Equal(t, 0, d.calls)

	// 状态完全不变，也没有留下对战记录
	challenger := reload(t, "c1")
	defender := reload(t, "c2")
	assert.Equal(t, 4, challenger.XP)
	assert.Equal(t, 50, defender.XP)
	assert.Equal(t, 0, challenger.Losses)

	var count int64
	require.NoError(t, database.DB.Model(&FightResult{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestExecuteFightSelfChallenge(t *testing.T) {
	setupFightDB(t, "fight_self_challenge")
	seedFighter(t, "c1", 50, 1000)

	d := &stubDecider{winner: oracle.WinnerFighterA}
	UseDecider(d)

	_, err := ExecuteFight(context.Background(), "c1", "c1")
	assert.ErrorIs(t, err, ErrSelfChallenge)
	assert.Equal(t, 0, d.calls)
}

func TestExecuteFightMissingFighter(t *testing.T) {
	setupFightDB(t, "fight_missing_fighter")
	seedFighter(t, "c1", 50, 1000)

	d := &stubDecider{winner: oracle.WinnerFighterA}
	UseDecider(d)

	_, err := ExecuteFight(context.Background(), "c1", "ghost")
	assert.ErrorIs(t, err, ErrFighterMissing)
	assert.Equal(t, 0, d.calls)
}

func TestExecuteFightEnergyCap(t *testing.T) {
	setupFightDB(t, "fight_energy_cap")
	seedFighter(t, "c1", 50, character.MaxEnergyLevel-3)
	seedFighter(t, "c2", 50, character.MaxEnergyLevel)

	d := &stubDecider{winner: oracle.WinnerFighterA}
	UseDecider(d)

	_, err := ExecuteFight(context.Background(), "c1", "c2")
	require.NoError(t, err)

	// 咒力增长不突破硬上限
	assert.Equal(t, character.MaxEnergyLevel, reload(t, "c1").EnergyLevel)
	assert.Equal(t, character.MaxEnergyLevel, reload(t, "c2").EnergyLevel)
}

func TestExecuteFightRecordIsPersisted(t *testing.T) {
	setupFightDB(t, "fight_record_persisted")
	seedFighter(t, "c1", 50, 1000)
	seedFighter(t, "c2", 50, 1000)

	d := &stubDecider{winner: oracle.WinnerFighterA}
	UseDecider(d)

	record, err := ExecuteFight(context.Background(), "c1", "c2")
	require.NoError(t, err)

	var stored FightResult
	require.NoError(t, database.DB.First(&stored, "id = ?", record.ID).Error)
	assert.Equal(t, "c1", stored.Character1ID)
	assert.Equal(t, "c2", stored.Character2ID)
	assert.Equal(t, 1, stored.Round)
	assert.Equal(t, oracle.WinnerFighterA, stored.SummaryPayload.Winner)
	assert.NotEmpty(t, stored.SummaryTitle)
	assert.NotEmpty(t, stored.SummaryNarrative)
}
