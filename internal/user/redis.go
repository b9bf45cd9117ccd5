package user

// 定义与用户相关的Redis键名
const (
	// KnownUsersKey 是一个Set，用于快速判断一个ID是否是已建档的用户。
	// Key: users:known
	// Member: 用户ID (UUID)
	KnownUsersKey = "users:known"
)
