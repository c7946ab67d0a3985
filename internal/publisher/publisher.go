// Package publisher emits ranking events to downstream consumers.
package publisher

import (
	"context"
	"time"

	"CryptoAdvisor/internal/model"
)

const (
	EventTypeRanking = "RANKING_UPDATED"
	SchemaVersion    = "1.0"
	eventSource      = "crypto-advisor"
)

// RankingEvent is the envelope written to the ranking topic.
type RankingEvent struct {
	EventType     string      `json:"event_type"`
	Source        string      `json:"source"`
	SchemaVersion string      `json:"schema_version"`
	Timestamp     time.Time   `json:"timestamp"`
	Data          RankingData `json:"data"`
}

type RankingData struct {
	Strategy     string          `json:"strategy"`
	DataSource   string          `json:"data_source"`
	TotalSymbols int             `json:"total_symbols"`
	Rankings     []SymbolRanking `json:"rankings"`
}

type SymbolRanking struct {
	Symbol         string             `json:"symbol"`
	Rank           int                `json:"rank"`
	Score          float64            `json:"score"`
	RiskLevel      string             `json:"risk_level"`
	ExpectedReturn float64            `json:"expected_return_30d"`
	Reasoning      string             `json:"reasoning"`
	RankingFactors map[string]float64 `json:"ranking_factors"`
}

// NewRankingEvent builds the event for one strategy's ranking.
func NewRankingEvent(strategyID, dataSource string, recs []model.Recommendation, at time.Time) RankingEvent {
	rankings := make([]SymbolRanking, 0, len(recs))
	for _, r := range recs {
		factors := make(map[string]float64, len(r.Factors))
		for _, f := range r.Factors {
			factors[f.Name] = f.Weighted
		}
		rankings = append(rankings, SymbolRanking{
			Symbol:         r.Crypto.Symbol,
			Rank:           r.Rank,
			Score:          r.InvestmentScore,
			RiskLevel:      string(r.RiskLevel),
			ExpectedReturn: r.ExpectedReturn30d,
			Reasoning:      r.Reasoning,
			RankingFactors: factors,
		})
	}
	return RankingEvent{
		EventType:     EventTypeRanking,
		Source:        eventSource,
		SchemaVersion: SchemaVersion,
		Timestamp:     at.UTC(),
		Data: RankingData{
			Strategy:     strategyID,
			DataSource:   dataSource,
			TotalSymbols: len(rankings),
			Rankings:     rankings,
		},
	}
}

// Publisher delivers ranking events.
type Publisher interface {
	PublishRanking(ctx context.Context, evt RankingEvent) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRanking(context.Context, RankingEvent) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }
