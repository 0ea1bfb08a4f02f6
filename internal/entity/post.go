package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentiment is the author's market view on the tagged stock.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentNeutral Sentiment = "neutral"
	SentimentBearish Sentiment = "bearish"
)

// IsValid reports whether s is one of the known sentiments.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentBullish, SentimentNeutral, SentimentBearish:
		return true
	}
	return false
}

// PositionType is the trade the author holds or suggests.
type PositionType string

const (
	PositionBuy  PositionType = "buy"
	PositionHold PositionType = "hold"
	PositionSell PositionType = "sell"
)

// IsValid reports whether p is one of the known position types.
func (p PositionType) IsValid() bool {
	switch p {
	case PositionBuy, PositionHold, PositionSell:
		return true
	}
	return false
}

// Column limits of the posts table. Lengths are in characters.
const (
	MaxTitleLength     = 200
	MaxAuthorLength    = 100
	MaxStockCodeLength = 20
	MaxStockNameLength = 100

	PriceScale = 2
)

// Post is a single message on the board.
type Post struct {
	ID           uint                `gorm:"primaryKey"`
	Title        string              `gorm:"type:varchar(200);not null"`
	Content      string              `gorm:"type:text;not null"`
	Author       string              `gorm:"type:varchar(100);not null"`
	StockCode    *string             `gorm:"type:varchar(20);index"`
	StockName    *string             `gorm:"type:varchar(100)"`
	Sentiment    Sentiment           `gorm:"type:varchar(10);not null;default:neutral"`
	PositionType PositionType        `gorm:"type:varchar(10);not null;default:hold"`
	EntryPrice   decimal.NullDecimal `gorm:"type:numeric(15,2)"`
	TargetPrice  decimal.NullDecimal `gorm:"type:numeric(15,2)"`
	ViewCount    int                 `gorm:"not null;default:0"`
	LikeCount    int                 `gorm:"not null;default:0"`
	CreatedAt    time.Time           `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Post model.
func (Post) TableName() string {
	return "posts"
}

// PostFilter narrows a post listing. Zero-valued fields are ignored and the
// remaining ones are combined with AND.
type PostFilter struct {
	Sentiment    Sentiment
	StockCode    string
	PositionType PositionType
}

// IsEmpty reports whether no filter is set.
func (f PostFilter) IsEmpty() bool {
	return f.Sentiment == "" && f.StockCode == "" && f.PositionType == ""
}

// PostPatch is a field-level partial update. Nil fields are left untouched.
// An empty StockCode or StockName clears the column and a price whose Valid
// flag is false clears the price.
type PostPatch struct {
	Title        *string
	Content      *string
	Author       *string
	StockCode    *string
	StockName    *string
	Sentiment    *Sentiment
	PositionType *PositionType
	EntryPrice   *decimal.NullDecimal
	TargetPrice  *decimal.NullDecimal
}

// IsEmpty reports whether the patch carries no field at all.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Author == nil &&
		p.StockCode == nil && p.StockName == nil &&
		p.Sentiment == nil && p.PositionType == nil &&
		p.EntryPrice == nil && p.TargetPrice == nil
}

// Apply copies the patched fields onto post.
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Author != nil {
		post.Author = *p.Author
	}
	if p.StockCode != nil {
		post.StockCode = nilIfEmpty(*p.StockCode)
	}
	if p.StockName != nil {
		post.StockName = nilIfEmpty(*p.StockName)
	}
	if p.Sentiment != nil {
		post.Sentiment = *p.Sentiment
	}
	if p.PositionType != nil {
		post.PositionType = *p.PositionType
	}
	if p.EntryPrice != nil {
		post.EntryPrice = *p.EntryPrice
	}
	if p.TargetPrice != nil {
		post.TargetPrice = *p.TargetPrice
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
