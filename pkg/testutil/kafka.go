package testutil

import (
	"context"
	"net"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// StartKafka runs a single-node KRaft broker and returns its bootstrap
// addresses. The broker is released when the test ends.
func StartKafka(ctx context.Context, t testing.TB) []string {
	t.Helper()

	c, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("credit-test"),
	)
	if err != nil {
		t.Fatalf("start kafka: %v", err)
	}
	terminateOnCleanup(t, "kafka", c)

	brokers, err := c.Brokers(ctx)
	if err != nil {
		t.Fatalf("kafka brokers: %v", err)
	}
	return brokers
}

// CreateTopics creates single-partition topics through the cluster
// controller so consumers can join before the first publish.
func CreateTopics(t testing.TB, brokers []string, topics ...string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", brokers[0])
	if err != nil {
		t.Fatalf("dial kafka: %v", err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		t.Fatalf("kafka controller: %v", err)
	}
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		t.Fatalf("dial kafka controller: %v", err)
	}
	defer cc.Close()

	configs := make([]kafkago.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		configs = append(configs, kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := cc.CreateTopics(configs...); err != nil {
		t.Fatalf("create topics %v: %v", topics, err)
	}
}
