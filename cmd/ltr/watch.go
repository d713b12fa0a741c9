package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alfredjeanlab/linuxtrainer/internal/events"
	"github.com/alfredjeanlab/linuxtrainer/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow session events from the event bus",
	GroupID: "observe",
	Example: `  ltr watch --nats-url nats://localhost:4222`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		url := cfg.NATSURL
		if cmd.Flags().Changed("nats-url") {
			url, _ = cmd.Flags().GetString("nats-url")
		}
		if url == "" {
			return fmt.Errorf("no event bus configured: set nats_url, LTR_NATS_URL or --nats-url")
		}
		topic, _ := cmd.Flags().GetString("topic")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var sub events.Subscriber
		sub, err = events.NewNATSSubscriber(url,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats: disconnected", "err", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				logger.Info("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()

		return followEvents(ctx, cmd.OutOrStdout(), ch)
	},
}

func init() {
	watchCmd.Flags().String("nats-url", "", "NATS server URL (default from config)")
	watchCmd.Flags().String("topic", events.TopicAll, "subject to follow")
}

// followEvents prints each message until ctx is done or ch is closed.
func followEvents(ctx context.Context, w io.Writer, ch <-chan events.Message) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := printEvent(w, msg); err != nil {
				logger.Warn("undecodable event", "topic", msg.Topic, "err", err)
			}
		}
	}
}

func printEvent(w io.Writer, msg events.Message) error {
	if jsonOutput {
		data, err := json.Marshal(struct {
			Topic string          `json:"topic"`
			Data  json.RawMessage `json:"data"`
		}{msg.Topic, msg.Data})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}
	line, err := events.Describe(msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", ui.RenderMuted(time.Now().Format("15:04:05")), line)
	return nil
}
