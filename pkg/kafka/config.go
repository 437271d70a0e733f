package kafka

import (
	"crypto/tls"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Config holds Kafka connection parameters.
type Config struct {
	ConsumerGroup string

	// SASLMechanism is "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512". Empty
	// disables SASL.
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// TLS enables TLS for Kafka connections.
	TLS bool
}

func (c Config) saslMechanism() (sasl.Mechanism, error) {
	switch c.SASLMechanism {
	case "":
		return nil, nil
	case "PLAIN":
		return &plain.Mechanism{Username: c.SASLUsername, Password: c.SASLPassword}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
	default:
		return nil, fmt.Errorf("kafka: unsupported SASL mechanism %q", c.SASLMechanism)
	}
}

func (c Config) tlsConfig() *tls.Config {
	if !c.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// transport is used by writers.
func (c Config) transport() (*kafkago.Transport, error) {
	mech, err := c.saslMechanism()
	if err != nil {
		return nil, err
	}
	return &kafkago.Transport{
		TLS:         c.tlsConfig(),
		SASL:        mech,
		DialTimeout: 10 * time.Second,
	}, nil
}

// dialer is used by readers.
func (c Config) dialer() (*kafkago.Dialer, error) {
	mech, err := c.saslMechanism()
	if err != nil {
		return nil, err
	}
	return &kafkago.Dialer{
		Timeout:       10 * time.Second,
		DualStack:     true,
		TLS:           c.tlsConfig(),
		SASLMechanism: mech,
	}, nil
}
