package metadata

// 这些键用于 metadata 表的 key 列。
const (
	// DefaultUserSeededKey 记录默认用户是否已经创建过，值为用户ID。
	DefaultUserSeededKey = "default_user_seeded"

	// PolicyVersionKey 记录最近一次成功加载的经济策略版本。
	PolicyVersionKey = "policy_version"
)
