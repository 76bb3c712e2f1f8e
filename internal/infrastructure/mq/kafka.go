package mq

import (
	"errors"

	"socioportal/internal/config"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"
)

var producer sarama.SyncProducer

var ErrProducerNotReady = errors.New("kafka producer not initialized")

// InitKafka creates the synchronous producer used by the outbox sender.
func InitKafka(cfg *config.KafkaConfig) sarama.SyncProducer {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Retry.Max = 3
	kafkaConfig.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		log.Fatal().Err(err).Strs("brokers", cfg.Brokers).Msg("create kafka producer failed")
	}

	producer = p
	log.Info().Strs("brokers", cfg.Brokers).Msg("kafka producer ready")
	return p
}

// SendMessage publishes one message through the shared producer.
func SendMessage(topic, key, value string) error {
	if producer == nil {
		return ErrProducerNotReady
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(value),
	}

	_, _, err := producer.SendMessage(msg)
	return err
}

// CloseKafka shuts the producer down.
func CloseKafka() {
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error().Err(err).Msg("close kafka producer failed")
		}
	}
}
