// Package kafka wires the activity event producer and consumer to the
// configured brokers.
package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/effiwise/effimappro/events/modules/activities"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

// Config holds the broker settings
type Config struct {
	Brokers   []string
	Username  string
	Password  string
	Topic     string
	GroupName string
}

// Enabled reports whether any brokers are configured
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}

func (c Config) secure() bool {
	return c.Username != "" && c.Password != ""
}

// NewDialer returns a dialer using SASL/PLAIN over TLS when credentials are
// set, and a plain dialer for local brokers otherwise.
func NewDialer(cfg Config) *kafka.Dialer {
	if cfg.secure() {
		return &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
			TLS:           &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
}

// NewTransport returns the writer transport matching NewDialer
func NewTransport(cfg Config) *kafka.Transport {
	if !cfg.secure() {
		return nil
	}
	return &kafka.Transport{
		SASL: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
		TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
	}
}

// NewProducer creates the activity event producer, or nil when Kafka is
// not configured.
func NewProducer(cfg Config) *activities.ActivityProducer {
	if !cfg.Enabled() {
		return nil
	}
	return activities.NewActivityProducer(cfg.Brokers, cfg.Topic, NewTransport(cfg))
}

// RunActivityProcessor checks broker connectivity and then consumes
// activity events in the background until ctx is cancelled. Every server
// instance joins its own consumer group so each one sees every event; the
// group is named after the host so a restart resumes the same group.
func RunActivityProcessor(ctx context.Context, cfg Config, handler activities.ActivityHandler, logger *zap.Logger) error {
	if !cfg.Enabled() {
		return errors.New("no kafka brokers configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dialer := NewDialer(cfg)

	var err error
	for i := 1; i <= 3; i++ {
		logger.Sugar().Infof("Kafka connection attempt %d/3...", i)
		var conn *kafka.Conn
		conn, err = dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return err
	}

	group := cfg.GroupName
	if group == "" {
		group = "effimappro"
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     group + "-" + instanceName(),
		Topic:       cfg.Topic,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
		Dialer:      dialer,
	})

	go func() {
		defer reader.Close()
		logger.Info("Kafka activity processor started", zap.String("topic", cfg.Topic))
		consume(ctx, reader, handler, readBackOff(), logger)
	}()

	return nil
}

// MessageReader is the part of *kafka.Reader the consumer loop uses
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

func readBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0 // retry until ctx is cancelled
	return bo
}

// consume reads and handles events until ctx is cancelled. Read failures
// wait out the backoff; a successful read resets it.
func consume(ctx context.Context, reader MessageReader, handler activities.ActivityHandler, bo backoff.BackOff, logger *zap.Logger) {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait := bo.NextBackOff()
			if wait == backoff.Stop {
				logger.Error("Kafka read failed, stopping activity processor", zap.Error(err))
				return
			}
			logger.Warn("Kafka read failed", zap.Duration("retry_in", wait), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}
		bo.Reset()

		if err := activities.HandleActivityRecordedMessage(ctx, msg.Value, handler); err != nil {
			logger.Warn("Skipping activity event", zap.Error(err))
		}
	}
}

// instanceName identifies this server in the consumer group name
func instanceName() string {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		return uuid.NewString()
	}
	return strings.ToLower(strings.TrimSpace(host))
}
