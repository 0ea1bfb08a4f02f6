package dto

import (
	"time"

	"stock-board/internal/entity"

	"github.com/shopspring/decimal"
)

// CreatePostRequest is the DTO for creating a new post. Length limits apply to
// the trimmed values and are enforced by the use-case.
type CreatePostRequest struct {
	Title        string        `json:"title" validate:"required" maxLength:"200"`
	Content      string        `json:"content" validate:"required"`
	Author       string        `json:"author" validate:"required" maxLength:"100"`
	StockCode    *string       `json:"stockCode" maxLength:"20"`
	StockName    *string       `json:"stockName" maxLength:"100"`
	Sentiment    string        `json:"sentiment" validate:"omitempty,oneof=bullish neutral bearish"`
	PositionType string        `json:"positionType" validate:"omitempty,oneof=buy hold sell"`
	EntryPrice   NullableFloat `json:"entryPrice" validate:"omitempty,gte=0" swaggertype:"number"`
	TargetPrice  NullableFloat `json:"targetPrice" validate:"omitempty,gte=0" swaggertype:"number"`
}

// UpdatePostRequest is the DTO for updating an existing post. Absent fields
// are left untouched; an explicit null price clears it.
type UpdatePostRequest struct {
	Title        *string       `json:"title" validate:"omitempty,min=1" maxLength:"200"`
	Content      *string       `json:"content" validate:"omitempty,min=1"`
	Author       *string       `json:"author" validate:"omitempty,min=1" maxLength:"100"`
	StockCode    *string       `json:"stockCode" maxLength:"20"`
	StockName    *string       `json:"stockName" maxLength:"100"`
	Sentiment    *string       `json:"sentiment" validate:"omitempty,oneof=bullish neutral bearish"`
	PositionType *string       `json:"positionType" validate:"omitempty,oneof=buy hold sell"`
	EntryPrice   NullableFloat `json:"entryPrice" validate:"omitempty,gte=0" swaggertype:"number"`
	TargetPrice  NullableFloat `json:"targetPrice" validate:"omitempty,gte=0" swaggertype:"number"`
}

// PostResponse is the JSON representation of a post.
type PostResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	StockCode    *string   `json:"stockCode,omitempty"`
	StockName    *string   `json:"stockName,omitempty"`
	Sentiment    string    `json:"sentiment"`
	PositionType string    `json:"positionType"`
	EntryPrice   *float64  `json:"entryPrice,omitempty"`
	TargetPrice  *float64  `json:"targetPrice,omitempty"`
	ViewCount    int       `json:"viewCount"`
	LikeCount    int       `json:"likeCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PostPageResponse is one page of posts plus the total match count.
type PostPageResponse struct {
	Items    []PostResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// StockTrendResponse summarizes the discussion around one stock.
type StockTrendResponse struct {
	StockCode      string    `json:"stockCode" maxLength:"20"`
	StockName      *string   `json:"stockName,omitempty"`
	PostCount      int64     `json:"postCount"`
	BullishCount   int64     `json:"bullishCount"`
	NeutralCount   int64     `json:"neutralCount"`
	BearishCount   int64     `json:"bearishCount"`
	AvgTargetPrice *float64  `json:"avgTargetPrice,omitempty"`
	LastPostedAt   time.Time `json:"lastPostedAt"`
}

// NewPostResponse maps a post entity to its JSON representation.
func NewPostResponse(post *entity.Post) PostResponse {
	return PostResponse{
		ID:           post.ID,
		Title:        post.Title,
		Content:      post.Content,
		Author:       post.Author,
		StockCode:    post.StockCode,
		StockName:    post.StockName,
		Sentiment:    string(post.Sentiment),
		PositionType: string(post.PositionType),
		EntryPrice:   floatOrNil(post.EntryPrice),
		TargetPrice:  floatOrNil(post.TargetPrice),
		ViewCount:    post.ViewCount,
		LikeCount:    post.LikeCount,
		CreatedAt:    post.CreatedAt.UTC(),
		UpdatedAt:    post.UpdatedAt.UTC(),
	}
}

// NewPostResponses maps a slice of posts, never returning nil.
func NewPostResponses(posts []entity.Post) []PostResponse {
	responses := make([]PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, NewPostResponse(&posts[i]))
	}
	return responses
}

// NewStockTrendResponses maps trending summaries, never returning nil.
func NewStockTrendResponses(trends []entity.StockTrendSummary) []StockTrendResponse {
	responses := make([]StockTrendResponse, 0, len(trends))
	for _, t := range trends {
		responses = append(responses, StockTrendResponse{
			StockCode:      t.StockCode,
			StockName:      t.StockName,
			PostCount:      t.PostCount,
			BullishCount:   t.BullishCount,
			NeutralCount:   t.NeutralCount,
			BearishCount:   t.BearishCount,
			AvgTargetPrice: floatOrNil(t.AvgTargetPrice),
			LastPostedAt:   t.LastPostedAt.UTC(),
		})
	}
	return responses
}

func floatOrNil(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
