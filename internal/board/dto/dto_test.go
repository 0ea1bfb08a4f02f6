package dto

import (
	"encoding/json"
	"testing"
	"time"

	"stock-board/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableFloat_Unmarshal(t *testing.T) {
	var req UpdatePostRequest

	require.NoError(t, json.Unmarshal([]byte(`{"entryPrice":null,"targetPrice":12.5}`), &req))
	assert.True(t, req.EntryPrice.Set)
	assert.False(t, req.EntryPrice.Valid)
	assert.Nil(t, req.EntryPrice.Ptr())
	assert.True(t, req.TargetPrice.Set)
	require.NotNil(t, req.TargetPrice.Ptr())
	assert.Equal(t, 12.5, *req.TargetPrice.Ptr())

	req = UpdatePostRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &req))
	assert.False(t, req.EntryPrice.Set)

	assert.Error(t, json.Unmarshal([]byte(`{"entryPrice":"cheap"}`), &req))
}

func TestNewPostResponse(t *testing.T) {
	code := "005930"
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("KST", 9*3600))
	post := &entity.Post{
		ID:           3,
		Title:        "t",
		StockCode:    &code,
		Sentiment:    entity.SentimentBearish,
		PositionType: entity.PositionSell,
		EntryPrice:   decimal.NewNullDecimal(decimal.RequireFromString("71200.50")),
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	raw, err := json.Marshal(NewPostResponse(post))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "005930", out["stockCode"])
	assert.Equal(t, "bearish", out["sentiment"])
	assert.Equal(t, "sell", out["positionType"])
	assert.Equal(t, 71200.5, out["entryPrice"])
	assert.NotContains(t, out, "targetPrice")
	assert.NotContains(t, out, "stockName")
	assert.Equal(t, "2024-03-01T00:30:00Z", out["createdAt"])
}

func TestNewPostResponses_NeverNil(t *testing.T) {
	raw, err := json.Marshal(NewPostResponses(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}
