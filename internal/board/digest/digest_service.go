package digest

import (
	"context"
	"fmt"
	"time"

	"stock-board/internal/board/dto"
	"stock-board/internal/board/usecase"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"
	"stock-board/pkg/telegram"

	"github.com/robfig/cron/v3"
)

// TrendingSource returns the trending stocks for a window.
type TrendingSource interface {
	Execute(ctx context.Context, input usecase.GetTrendingStocksInput) ([]entity.StockTrendSummary, error)
}

// DigestService periodically sends a trending-stocks digest to a chat.
type DigestService struct {
	trending TrendingSource
	notifier telegram.Notifier
	schedule cron.Schedule
	limit    int
	days     int
	logger   *logger.Logger
	now      func() time.Time
}

// NewDigestService parses the cron expression and creates a DigestService.
func NewDigestService(trending TrendingSource, notifier telegram.Notifier, cronExpr string, limit, days int, log *logger.Logger) (*DigestService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", cronExpr, err)
	}
	return &DigestService{
		trending: trending,
		notifier: notifier,
		schedule: schedule,
		limit:    limit,
		days:     days,
		logger:   log,
		now:      time.Now,
	}, nil
}

// Start sends a digest at every scheduled time until ctx is canceled.
func (s *DigestService) Start(ctx context.Context) {
	for {
		next := s.schedule.Next(s.now())
		s.logger.Info("Next trending digest scheduled", logger.Field("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Digest service stopping")
			return
		case <-timer.C:
			if err := s.Send(ctx); err != nil {
				s.logger.Error("Failed to send trending digest", logger.ErrorField(err))
			}
		}
	}
}

// Send builds and sends one digest immediately.
func (s *DigestService) Send(ctx context.Context) error {
	limit, days := float64(s.limit), float64(s.days)
	input := usecase.GetTrendingStocksInput{Limit: &limit, Days: &days}
	trends, err := s.trending.Execute(ctx, input)
	if err != nil {
		return fmt.Errorf("load trending stocks: %w", err)
	}

	query := usecase.TrendingQuery(input)
	lines := make([]telegram.TrendLine, 0, len(trends))
	for _, t := range dto.NewStockTrendResponses(trends) {
		line := telegram.TrendLine{
			StockCode:      t.StockCode,
			PostCount:      t.PostCount,
			BullishCount:   t.BullishCount,
			NeutralCount:   t.NeutralCount,
			BearishCount:   t.BearishCount,
			AvgTargetPrice: t.AvgTargetPrice,
		}
		if t.StockName != nil {
			line.StockName = *t.StockName
		}
		lines = append(lines, line)
	}

	if err := s.notifier.SendMessage(telegram.FormatTrendingDigest(query.Days, lines)); err != nil {
		return err
	}
	s.logger.Info("Trending digest sent", logger.IntField("stocks", len(lines)))
	return nil
}
