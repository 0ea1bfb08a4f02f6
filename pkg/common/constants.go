package common

const (
	RedisStreamPostEvents = "board.post.events"

	DefaultPageSize = 10
	MaxPageSize     = 100

	DefaultTrendingLimit = 5
	MaxTrendingLimit     = 20
	DefaultTrendingDays  = 7
	MaxTrendingDays      = 90
)
