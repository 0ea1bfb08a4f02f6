package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"

	"github.com/shopspring/decimal"
)

// BatchSize is the number of rows written per INSERT.
const BatchSize = 25

type stock struct {
	code string
	name string
	// base is a rough share price used to keep generated prices plausible.
	base int64
}

var stocks = []stock{
	{"005930", "Samsung Electronics", 72000},
	{"000660", "SK hynix", 180000},
	{"035420", "NAVER", 190000},
	{"035720", "Kakao", 45000},
	{"051910", "LG Chem", 380000},
	{"068270", "Celltrion", 180000},
	{"105560", "KB Financial", 78000},
	{"055550", "Shinhan Financial", 50000},
	{"066570", "LG Electronics", 95000},
	{"028260", "Samsung C&T", 140000},
}

var authors = []string{
	"alpha_investor", "beta_trader", "potato_farmer", "quant_nerd", "rookie_ant",
	"fin_analyst", "longshort_master", "newbie_a", "value_hunter", "scalp_king",
}

var titleSuffixes = []string{
	"analysis", "outlook", "earnings comment", "risk check",
	"momentum check", "news recap", "technical view", "valuation",
}

var genericTopics = []string{"market comment", "rates and equities", "sector scan", "inflation impact"}

var contentLines = []string{
	"A quick summary of yesterday's flows.",
	"The short-term trend looks overheated.",
	"Valuation sits at a small premium to the sector average.",
	"Earnings momentum still looks valid over the medium term.",
	"Key risks are FX volatility and rising input costs.",
	"A break above resistance could extend the rally.",
	"Institutional demand is improving.",
}

var sentiments = []entity.Sentiment{entity.SentimentBullish, entity.SentimentNeutral, entity.SentimentBearish}

var positions = []entity.PositionType{entity.PositionBuy, entity.PositionHold, entity.PositionSell}

// Generate builds count random posts dated within the last 180 days of now.
// Roughly 70% of them reference one of the sample stocks.
func Generate(rng *rand.Rand, count int, now time.Time) []entity.Post {
	posts := make([]entity.Post, 0, count)
	for i := 0; i < count; i++ {
		var s *stock
		if rng.Float64() < 0.7 {
			s = &stocks[rng.Intn(len(stocks))]
		}

		created := pastDate(rng, now, 180)
		post := entity.Post{
			Title:        title(rng, s),
			Content:      content(rng, s),
			Author:       authors[rng.Intn(len(authors))],
			Sentiment:    sentiments[rng.Intn(len(sentiments))],
			PositionType: positions[rng.Intn(len(positions))],
			ViewCount:    rng.Intn(500),
			LikeCount:    rng.Intn(50),
			CreatedAt:    created,
			UpdatedAt:    created,
		}
		if s != nil {
			code, name := s.code, s.name
			post.StockCode = &code
			post.StockName = &name
			if rng.Float64() < 0.6 {
				post.EntryPrice = decimal.NewNullDecimal(price(rng, s.base, 0.9, 1.1))
			}
			if rng.Float64() < 0.6 {
				post.TargetPrice = decimal.NewNullDecimal(price(rng, s.base, 0.8, 1.4))
			}
		}
		posts = append(posts, post)
	}
	return posts
}

// Run inserts count generated posts through repo.
func Run(ctx context.Context, repo repository.PostRepository, count int, rng *rand.Rand, log *logger.Logger) error {
	posts := Generate(rng, count, time.Now())
	for start := 0; start < len(posts); start += BatchSize {
		end := start + BatchSize
		if end > len(posts) {
			end = len(posts)
		}
		if err := repo.CreateBatch(ctx, posts[start:end], BatchSize); err != nil {
			return fmt.Errorf("insert posts %d-%d: %w", start, end, err)
		}
		log.Info("Inserted seed posts", logger.IntField("inserted", end), logger.IntField("total", len(posts)))
	}
	return nil
}

func pastDate(rng *rand.Rand, now time.Time, days int) time.Time {
	d := now.AddDate(0, 0, -rng.Intn(days+1))
	t := time.Date(d.Year(), d.Month(), d.Day(), rng.Intn(24), rng.Intn(60), rng.Intn(60), 0, d.Location())
	if t.After(now) {
		return now
	}
	return t
}

func title(rng *rand.Rand, s *stock) string {
	suffix := titleSuffixes[rng.Intn(len(titleSuffixes))]
	if s != nil {
		return fmt.Sprintf("%s (%s) %s", s.name, s.code, suffix)
	}
	return fmt.Sprintf("%s - %s", genericTopics[rng.Intn(len(genericTopics))], suffix)
}

func content(rng *rand.Rand, s *stock) string {
	n := 2 + rng.Intn(4)
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, contentLines[rng.Intn(len(contentLines))])
	}
	body := strings.Join(lines, "\n\n")
	if s != nil {
		return fmt.Sprintf("Focus: %s (%s)\n\n%s", s.name, s.code, body)
	}
	return body
}

// price returns base scaled by a random factor in [lo, hi), rounded to the won.
func price(rng *rand.Rand, base int64, lo, hi float64) decimal.Decimal {
	factor := lo + rng.Float64()*(hi-lo)
	return decimal.NewFromInt(base).Mul(decimal.NewFromFloat(factor)).Round(0)
}
