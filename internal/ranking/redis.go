package ranking

// 定义与排行榜相关的Redis键名
const (
	// RankingKey 是一个Sorted Set，Score为角色名次，Member为角色ID
	RankingKey = "leaderboard:ranking"

	// EntriesKey 是一个Hash，Field为角色ID，Value为LeaderboardEntry的JSON序列化
	EntriesKey = "leaderboard:entries"
)
