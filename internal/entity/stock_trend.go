package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTrendSummary aggregates recent posts for a single stock. It is computed
// on demand and never persisted.
type StockTrendSummary struct {
	StockCode      string
	StockName      *string
	PostCount      int64
	BullishCount   int64
	NeutralCount   int64
	BearishCount   int64
	AvgTargetPrice decimal.NullDecimal
	LastPostedAt   time.Time
}

// TrendingQuery selects the top Limit stocks by post count over the last Days days.
type TrendingQuery struct {
	Limit int
	Days  int
}
