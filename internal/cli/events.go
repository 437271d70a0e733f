package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	pkgkafka "github.com/sanjanarawald/CreditApprovalSystem/pkg/kafka"
)

// EventLine is one consumed event as printed by events tail.
type EventLine struct {
	Key       string          `json:"key"`
	EventType string          `json:"event_type"`
	EventID   string          `json:"event_id"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEventsCommand creates the events command group.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the credit event stream",
	}

	var topic, group string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print events from the configured Kafka topic until interrupted",
		Long: `Print events from the configured Kafka topic until interrupted. Without a
consumer group only new events are shown; with one, the group resumes from its
committed offset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.config(cmd)
			if err != nil {
				return err
			}
			if topic == "" {
				topic = cfg.Kafka.Topic
			}
			client := cfg.Kafka.Client()
			client.ConsumerGroup = group

			consumer, err := pkgkafka.NewConsumer(client, topic, printEvents(rootOpts.formatter(cmd)), logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "kafka consumer", err)
			}
			defer consumer.Close()

			if err := consumer.Start(commandContext(cmd)); err != nil {
				return WrapExitError(ExitFailure, "consume", err)
			}
			return nil
		},
	}
	tail.Flags().StringVar(&topic, "topic", "", "topic to read (defaults to the configured topic)")
	tail.Flags().StringVar(&group, "group", "", "consumer group to join")

	cmd.AddCommand(tail)
	return cmd
}

// printEvents renders each message on a single line in either format.
func printEvents(f *OutputFormatter) pkgkafka.Handler {
	var mu sync.Mutex
	return func(_ context.Context, msg pkgkafka.Message) error {
		line := EventLine{
			Key:       string(msg.Key),
			EventType: msg.Headers["event_type"],
			EventID:   msg.Headers["event_id"],
			Payload:   json.RawMessage(msg.Value),
		}
		if !json.Valid(msg.Value) {
			return fmt.Errorf("event %s: payload is not JSON", line.EventID)
		}

		mu.Lock()
		defer mu.Unlock()
		if f.Format == "json" {
			return json.NewEncoder(f.Writer).Encode(line)
		}
		_, err := fmt.Fprintf(f.Writer, "%-32s key=%-6s %s\n", line.EventType, line.Key, msg.Value)
		return err
	}
}
