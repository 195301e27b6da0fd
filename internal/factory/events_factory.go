package factory

import (
	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/adapters/events"
	"github.com/stoik/email-guard/internal/config"
	"github.com/stoik/email-guard/internal/ports"
)

// CreateEventPublisher connects to Kafka when brokers are configured
func CreateEventPublisher(cfg *config.Config, logger *zap.Logger) (ports.ScanEventPublisher, error) {
	eventsCfg := cfg.Events()
	if len(eventsCfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}, nil
	}

	publisher, err := events.NewKafkaPublisher(eventsCfg.KafkaBrokers, eventsCfg.KafkaTopic, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Publishing scan events",
		zap.Strings("brokers", eventsCfg.KafkaBrokers),
		zap.String("topic", eventsCfg.KafkaTopic))
	return publisher, nil
}
