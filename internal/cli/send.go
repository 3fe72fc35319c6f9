package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shaiso/Hive/internal/broker"
	"github.com/shaiso/Hive/internal/codec"
	"github.com/shaiso/Hive/internal/domain"
)

// ErrNotPublished — брокер не принял сообщение.
var ErrNotPublished = errors.New("message was not published")

// TransportFunc создаёт транспорт брокера для отправки.
type TransportFunc func() (broker.Transport, error)

// NewSendCmd создаёт команду отправки одного сообщения в очередь.
//
// Сообщение отправляется через Broker в режиме только отправки,
// data разбирается по правилам codec (0x..n → big.Int, ISO время → time.Time).
func NewSendCmd(transportFn TransportFunc, outputFn func() *Output, logger *slog.Logger) *cobra.Command {
	var queue, name, data string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Publish a message to a service queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			payload, err := codec.UnmarshalData([]byte(data))
			if err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}

			transport, err := transportFn()
			if err != nil {
				return err
			}

			if err := send(cmd.Context(), transport, logger, queue, name, payload); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Message %s sent to %s", name, queue))
			return nil
		},
	}

	cmd.Flags().StringVar(&queue, "queue", "", "Target queue (service instance name)")
	cmd.Flags().StringVar(&name, "name", "", "Message name")
	cmd.Flags().StringVar(&data, "data", "{}", "Message data as JSON object")
	cmd.MarkFlagRequired("queue")
	cmd.MarkFlagRequired("name")

	return cmd
}

func send(ctx context.Context, transport broker.Transport, logger *slog.Logger, queue, name string, data map[string]any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Init до брокера: брокер только логирует ошибку подключения
	if err := transport.Init(ctx); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}

	reporting := &reportingTransport{Transport: transport}
	b := broker.New(broker.Config{Transport: reporting, Logger: logger})

	if err := b.Init(ctx, 0); err != nil {
		b.Close()
		return err
	}

	b.SendMessage(queue, name, data)

	if err := b.Close(); err != nil {
		return err
	}

	if reporting.failed() > 0 {
		return fmt.Errorf("%w: %s to %s", ErrNotPublished, name, queue)
	}
	return nil
}

// reportingTransport считает неудачные публикации.
type reportingTransport struct {
	broker.Transport

	mu       sync.Mutex
	failures int
}

func (t *reportingTransport) Publish(ctx context.Context, queue string, msg domain.Message) bool {
	ok := t.Transport.Publish(ctx, queue, msg)
	if !ok {
		t.mu.Lock()
		t.failures++
		t.mu.Unlock()
	}
	return ok
}

func (t *reportingTransport) failed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}
