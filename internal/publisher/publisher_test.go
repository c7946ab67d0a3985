package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoAdvisor/internal/model"
)

func sampleRecs() []model.Recommendation {
	r := model.Recommendation{
		Rank:              1,
		InvestmentScore:   72.5,
		ExpectedReturn30d: 7.03,
		RiskLevel:         model.RiskLow,
		Reasoning:         "Solid fundamentals",
		Factors: []model.FactorScore{
			{Name: "technical", RawScore: 58.6, Weight: 0.3, Weighted: 17.58},
		},
	}
	r.Crypto.Symbol = "BTC"
	return []model.Recommendation{r}
}

func TestNewRankingEvent(t *testing.T) {
	at := time.Date(2026, 10, 14, 12, 0, 0, 0, time.FixedZone("x", 3600))
	evt := NewRankingEvent("wealth-building", model.SourceLive, sampleRecs(), at)

	assert.Equal(t, EventTypeRanking, evt.EventType)
	assert.Equal(t, time.UTC, evt.Timestamp.Location())
	assert.Equal(t, 1, evt.Data.TotalSymbols)
	require.Len(t, evt.Data.Rankings, 1)
	assert.Equal(t, "BTC", evt.Data.Rankings[0].Symbol)
	assert.Equal(t, "Low", evt.Data.Rankings[0].RiskLevel)
	assert.InDelta(t, 17.58, evt.Data.Rankings[0].RankingFactors["technical"], 1e-9)

	empty := NewRankingEvent("day-trading", model.SourceFallback, nil, at)
	assert.NotNil(t, empty.Data.Rankings)
	assert.Equal(t, 0, empty.Data.TotalSymbols)
}

func TestKafkaPublisher_PublishRanking(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var evt RankingEvent
		if err := json.Unmarshal(val, &evt); err != nil {
			return err
		}
		if evt.Data.Strategy != "wealth-building" {
			return errors.New("unexpected strategy " + evt.Data.Strategy)
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	p := NewKafkaPublisherWithProducer(producer, "crypto.rankings", zerolog.Nop())
	evt := NewRankingEvent("wealth-building", model.SourceLive, sampleRecs(), time.Now())

	require.NoError(t, p.PublishRanking(context.Background(), evt))
	err := p.PublishRanking(context.Background(), evt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	p := NewKafkaPublisherWithProducer(producer, "crypto.rankings", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishRanking(ctx, RankingEvent{}), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "t", zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoBrokers)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishRanking(context.Background(), RankingEvent{}))
	assert.NoError(t, p.Close())
}
