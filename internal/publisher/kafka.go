package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

var ErrNoBrokers = errors.New("kafka: no brokers configured")

// KafkaPublisher writes ranking events keyed by strategy id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewKafkaPublisher dials brokers with a synchronous producer.
func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic, log), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      log.With().Str("component", "publisher").Logger(),
	}
}

func (p *KafkaPublisher) PublishRanking(ctx context.Context, evt RankingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode ranking event: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.Data.Strategy),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish ranking %s: %w", evt.Data.Strategy, err)
	}
	p.log.Debug().
		Str("strategy", evt.Data.Strategy).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("ranking event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
