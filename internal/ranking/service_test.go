package ranking

import (
	"fmt"
	"testing"
	"time"

	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRankingDB(t *testing.T, name string) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &character.Character{}))
	database.DB = db
	database.UpdateRedisStatus(false)
}

func setupRankingRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	database.RDB = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	database.UpdateRedisStatus(true)
	return mr
}

func seedRanked(t *testing.T, id string, wins, losses, energy int, createdAt time.Time) {
	t.Helper()
	c := &character.Character{
		ID:          id,
		UserID:      "user-" + id,
		Name:        "Fighter " + id,
		Wins:        wins,
		Losses:      losses,
		EnergyLevel: energy,
		XP:          50,
		CreatedAt:   createdAt,
	}
	require.NoError(t, database.DB.Create(c).Error)
}

func rankOf(t *testing.T, id string) (ranking, previous int) {
	t.Helper()
	var c character.Character
	require.NoError(t, database.DB.First(&c, "id = ?", id).Error)
	return c.Ranking, c.PreviousRanking
}

func TestRecomputeComparator(t *testing.T) {
	setupRankingDB(t, "ranking_comparator")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 胜场降序 > 败场升序 > 咒力降序 > 创建时间升序
	seedRanked(t, "most-wins", 5, 3, 100, base)
	seedRanked(t, "fewer-losses", 3, 1, 100, base)
	seedRanked(t, "more-losses", 3, 2, 500, base)
	seedRanked(t, "higher-energy", 1, 1, 900, base)
	seedRanked(t, "older", 1, 1, 300, base)
	seedRanked(t, "newer", 1, 1, 300, base.Add(time.Hour))

	require.NoError(t, Recompute())

	expected := []struct {
		id   string
		rank int
	}{
		{"most-wins", 1},
		{"fewer-losses", 2},
		{"more-losses", 3},
		{"higher-energy", 4},
		{"older", 5},
		{"newer", 6},
	}
	for _, e := range expected {
		rank, _ := rankOf(t, e.id)
		assert.Equal(t, e.rank, rank, "角色 %s 的名次", e.id)
	}
}

func TestRecomputePreviousRanking(t *testing.T) {
	setupRankingDB(t, "ranking_previous")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedRanked(t, "a", 2, 0, 100, base)
	seedRanked(t, "b", 1, 0, 100, base)

	require.NoError(t, Recompute())
	aRank, aPrev := rankOf(t, "a")
	assert.Equal(t, 1, aRank)
	assert.Equal(t, 0, aPrev)

	// b反超a后，两者的previousRanking都记录变化前的名次
	require.NoError(t, database.DB.Model(&character.Character{}).
		Where("id = ?", "b").Update("wins", 3).Error)
	require.NoError(t, Recompute())

	aRank, aPrev = rankOf(t, "a")
	bRank, bPrev := rankOf(t, "b")
	assert.Equal(t, 2, aRank)
	assert.Equal(t, 1, aPrev)
	assert.Equal(t, 1, bRank)
	assert.Equal(t, 2, bPrev)
}

func TestRecomputeIdempotent(t *testing.T) {
	setupRankingDB(t, "ranking_idempotent")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedRanked(t, "a", 2, 0, 100, base)
	seedRanked(t, "b", 1, 0, 100, base)

	require.NoError(t, Recompute())
	_, aPrevFirst := rankOf(t, "a")

	// 名次没有变化时第二次重排不改写previousRanking
	require.NoError(t, Recompute())
	aRank, aPrev := rankOf(t, "a")
	assert.Equal(t, 1, aRank)
	assert.Equal(t, aPrevFirst, aPrev)
}

func TestRecomputeRefreshesRedisMirror(t *testing.T) {
	setupRankingDB(t, "ranking_mirror")
	mr := setupRankingRedis(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedRanked(t, "a", 2, 0, 100, base)
	seedRanked(t, "b", 1, 0, 100, base)

	require.NoError(t, Recompute())

	ids, err := database.RDB.ZRange(database.Ctx, RankingKey, 0, -1).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.True(t, mr.Exists(EntriesKey))
	assert.True(t, database.IsRedisHealthy())
}

func TestLeaderboardRedisFirst(t *testing.T) {
	setupRankingDB(t, "ranking_leaderboard_redis")
	setupRankingRedis(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		seedRanked(t, fmt.Sprintf("c%d", i), 10-i, 0, 100, base)
	}
	require.NoError(t, Recompute())

	page, err := Leaderboard(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "c1", page.Entries[0].ID)
	assert.Equal(t, "c2", page.Entries[1].ID)
	assert.True(t, page.HasMore)

	page, err = Leaderboard(3, 2)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "c5", page.Entries[0].ID)
	assert.False(t, page.HasMore)
}

func TestLeaderboardSQLFallback(t *testing.T) {
	setupRankingDB(t, "ranking_leaderboard_sql")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		seedRanked(t, fmt.Sprintf("c%d", i), 10-i, 0, 100, base)
	}
	require.NoError(t, Recompute())

	// Redis不可用时直接走SQL，顺序与镜像一致
	page, err := Leaderboard(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Entries, 3)
	assert.Equal(t, "c1", page.Entries[0].ID)
	assert.Equal(t, 1, page.Entries[0].Ranking)
	assert.False(t, page.HasMore)
}
