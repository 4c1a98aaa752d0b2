package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/rs/zerolog/log"
)

type KafkaOutput struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

func NewKafkaOutput(config *models.Config) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(config.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Info().Strs("brokers", brokerList).Msg("Sarama producer created")
	return NewKafkaOutputWithProducer(producer, config.KafkaTopicPrefix), nil
}

func NewKafkaOutputWithProducer(producer sarama.SyncProducer, topicPrefix string) *KafkaOutput {
	return &KafkaOutput{producer: producer, topicPrefix: topicPrefix}
}

// WriteMessage keys every message by year so one year's rows share a partition.
func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	if k.producer == nil {
		return fmt.Errorf("Kafka producer is closed")
	}

	_, year, err := partitionYear(msg)
	if err != nil {
		return err
	}

	fullTopic := k.topicPrefix + topic
	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: fullTopic,
		Key:   sarama.StringEncoder(strconv.Itoa(year)),
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		log.Error().Err(err).Str("topic", fullTopic).Msg("failed to send message")
		return err
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
