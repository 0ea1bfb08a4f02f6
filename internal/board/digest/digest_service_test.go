package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-board/internal/board/usecase"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTrending struct {
	trends []entity.StockTrendSummary
	err    error
	input  usecase.GetTrendingStocksInput
}

func (s *stubTrending) Execute(_ context.Context, input usecase.GetTrendingStocksInput) ([]entity.StockTrendSummary, error) {
	s.input = input
	return s.trends, s.err
}

type recordingNotifier struct {
	sent []string
}

func (n *recordingNotifier) SendMessage(text string) error {
	n.sent = append(n.sent, text)
	return nil
}

func TestNewDigestService_InvalidCron(t *testing.T) {
	_, err := NewDigestService(&stubTrending{}, &recordingNotifier{}, "every day", 5, 7, logger.NewNop())
	assert.Error(t, err)
}

func TestDigestService_Send(t *testing.T) {
	name := "Samsung Electronics"
	source := &stubTrending{trends: []entity.StockTrendSummary{{
		StockCode:      "005930",
		StockName:      &name,
		PostCount:      3,
		BullishCount:   2,
		NeutralCount:   1,
		AvgTargetPrice: decimal.NewNullDecimal(decimal.NewFromInt(80000)),
		LastPostedAt:   time.Now(),
	}}}
	notifier := &recordingNotifier{}

	svc, err := NewDigestService(source, notifier, "0 9 * * *", 5, 200, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, svc.Send(context.Background()))

	require.NotNil(t, source.input.Days)
	assert.Equal(t, 200.0, *source.input.Days)
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "last 90 days")
	assert.Contains(t, notifier.sent[0], "Samsung Electronics (005930)")
	assert.Contains(t, notifier.sent[0], "avg target 80000")
}

func TestDigestService_SendError(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, err := NewDigestService(&stubTrending{err: errors.New("db down")}, notifier, "@daily", 5, 7, logger.NewNop())
	require.NoError(t, err)

	assert.Error(t, svc.Send(context.Background()))
	assert.Empty(t, notifier.sent)
}

func TestDigestService_StartStopsOnCancel(t *testing.T) {
	svc, err := NewDigestService(&stubTrending{}, &recordingNotifier{}, "@yearly", 5, 7, logger.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("digest service did not stop")
	}
}
