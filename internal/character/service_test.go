package character

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/SlpAus/culling-game-backend/internal/oracle"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubGenerator 是固定输出的Oracle生成桩
type stubGenerator struct {
	grade        oracle.Grade
	insightCalls int
}

func (g *stubGenerator) GenerateCharacterInsights(_ context.Context, _ oracle.CharacterProfile) (*oracle.CharacterInsights, error) {
	g.insightCalls++
	return &oracle.CharacterInsights{
		Grade: g.grade,
		Weaknesses: oracle.Weaknesses{
			CursedTechniqueDrawbacks: []string{"High cost"},
			PhysicalLimitations:      []string{"Low stamina"},
			PersonalityFlaws:         []string{"Reckless"},
			BattleVulnerabilities:    []string{"Slow start"},
		},
	}, nil
}

func (g *stubGenerator) GenerateBindingVowDetails(_ context.Context, concept string) (*oracle.BindingVow, error) {
	return &oracle.BindingVow{
		Sacrifice:    concept,
		Enhancements: []string{"Boosted output"},
		Conditions:   []string{"Declared aloud"},
		Limitations:  []string{"Once per day"},
		SideEffects:  []string{"Exhaustion"},
	}, nil
}

func (g *stubGenerator) GenerateCharacterFromPrompt(_ context.Context, _ string) (*oracle.GeneratedCharacter, error) {
	return nil, fmt.Errorf("not used in tests")
}

func setupCharacterDB(t *testing.T, name string) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &Character{}))
	database.DB = db
	database.UpdateRedisStatus(false)
}

func validCreateInput() CreateCharacterInput {
	return CreateCharacterInput{
		Name:               "Ryo Kurosawa",
		Gender:             "male",
		Country:            "JP",
		Appearance:         strings.Repeat("Tall with silver hair. ", 3),
		Personality:        strings.Repeat("Calm and calculating. ", 3),
		Backstory:          strings.Repeat("Raised in a cursed village far from civilization. ", 2),
		PowerSystem:        "Cursed energy manipulation",
		CursedTechnique:    strings.Repeat("Shadow threads that bind. ", 3),
		InnateTechnique:    strings.Repeat("Perception of cursed flows. ", 3),
		MaxTechnique:       strings.Repeat("Thousand thread requiem. ", 3),
		DomainExpansion:    strings.Repeat("Garden of silent strings. ", 3),
		EnergyLevel:        1200,
		PowerLevelEstimate: "Upper Grade 2",
	}
}

func TestCreateCharacter(t *testing.T) {
	setupCharacterDB(t, "character_create")
	require.NoError(t, database.DB.Create(&user.User{ID: "u1"}).Error)

	g := &stubGenerator{grade: oracle.Grade2}
	UseGenerator(g)

	c, err := Create(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, InitialXP, c.XP)
	assert.Equal(t, oracle.Grade2, c.Grade)
	assert.NotEmpty(t, c.Weaknesses.BattleVulnerabilities)
	assert.Equal(t, 1, g.insightCalls)

	// 国家写回用户档案，用于后续的支付路由
	var u user.User
	require.NoError(t, database.DB.First(&u, "id = ?", "u1").Error)
	assert.Equal(t, "JP", u.Country)

	// 一个用户只允许一个角色
	_, err = Create(context.Background(), "u1", validCreateInput())
	assert.ErrorIs(t, err, ErrCharacterExists)
}

func TestUpgradeCharacter(t *testing.T) {
	setupCharacterDB(t, "character_upgrade")
	require.NoError(t, database.DB.Create(&user.User{ID: "u1"}).Error)

	g := &stubGenerator{grade: oracle.Grade2}
	UseGenerator(g)

	created, err := Create(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)

	t.Run("空表单被拒绝", func(t *testing.T) {
		_, err := Upgrade(context.Background(), "u1", UpgradeCharacterInput{})
		assert.ErrorIs(t, err, ErrEmptyUpgrade)
	})

	t.Run("设定缩水被拒绝", func(t *testing.T) {
		_, err := Upgrade(context.Background(), "u1", UpgradeCharacterInput{
			Backstory: strings.Repeat("Shorter backstory but above minimum. ", 2),
		})
		assert.ErrorIs(t, err, ErrLoreShrunk)
	})

	t.Run("进化增长咒力并重新评定", func(t *testing.T) {
		g.grade = oracle.Grade1
		upgraded, err := Upgrade(context.Background(), "u1", UpgradeCharacterInput{
			DomainExpansion: strings.Repeat("An expanded garden of silent strings that devours sound. ", 2),
		})
		require.NoError(t, err)
		assert.Equal(t, created.EnergyLevel+EnergyGainDomain, upgraded.EnergyLevel)
		assert.Equal(t, oracle.Grade1, upgraded.Grade)
	})
}

func TestCreateBindingVow(t *testing.T) {
	setupCharacterDB(t, "character_vow")
	require.NoError(t, database.DB.Create(&user.User{ID: "u1"}).Error)

	g := &stubGenerator{grade: oracle.Grade2}
	UseGenerator(g)

	created, err := Create(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)

	c, err := CreateBindingVow(context.Background(), "u1", BindingVowConceptInput{
		Name:    "Oath of Silence",
		Concept: strings.Repeat("Gives up speech during battle for power. ", 2),
	})
	require.NoError(t, err)
	require.Len(t, c.BindingVows, 1)
	assert.Equal(t, "Oath of Silence", c.BindingVows[0].Name)
	assert.Equal(t, created.EnergyLevel+EnergyGainBindingVow, c.EnergyLevel)
}

func TestListOpponents(t *testing.T) {
	setupCharacterDB(t, "character_opponents")
	g := &stubGenerator{grade: oracle.Grade2}
	UseGenerator(g)

	for i := 1; i <= 4; i++ {
		userID := fmt.Sprintf("u%d", i)
		require.NoError(t, database.DB.Create(&user.User{ID: userID}).Error)
		in := validCreateInput()
		in.Name = fmt.Sprintf("Fighter %d", i)
		c, err := Create(context.Background(), userID, in)
		require.NoError(t, err)
		require.NoError(t, database.DB.Model(c).Update("ranking", i).Error)
	}

	t.Run("排除自己并按名次排序", func(t *testing.T) {
		page, err := ListOpponents("u1", 1, 10, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		require.Len(t, page.Opponents, 3)
		assert.Equal(t, "Fighter 2", page.Opponents[0].Name)
	})

	t.Run("按名字搜索不区分大小写", func(t *testing.T) {
		page, err := ListOpponents("u1", 1, 10, "fighter 3")
		require.NoError(t, err)
		require.Len(t, page.Opponents, 1)
		assert.Equal(t, "Fighter 3", page.Opponents[0].Name)
	})

	t.Run("分页", func(t *testing.T) {
		page, err := ListOpponents("u1", 1, 2, "")
		require.NoError(t, err)
		assert.Len(t, page.Opponents, 2)
		assert.True(t, page.HasMore)
	})
}
