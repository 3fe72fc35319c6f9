package mq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Hive/internal/codec"
	"github.com/shaiso/Hive/internal/domain"
)

// Transport — тонкая обёртка над RabbitMQ для брокера сообщений.
//
// Предоставляет ровно: Init, Close, AssertQueue, AttachConsumer, Publish.
// Все сообщения кодируются через пакет codec.
type Transport struct {
	conn   *Connection
	logger *slog.Logger

	mu        sync.Mutex
	cancels   []context.CancelFunc
	closed    bool
	loopsDone sync.WaitGroup
}

// NewTransport создаёт транспорт. Подключение выполняет Init.
func NewTransport(cfg Config, logger *slog.Logger) *Transport {
	return &Transport{
		conn:   NewConnection(cfg.AMQPURL(), logger),
		logger: logger,
	}
}

// Init открывает соединение и канал.
// Ошибку логирует вызывающий: транспорт остаётся в нерабочем состоянии.
func (t *Transport) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.conn.Open()
}

// Close останавливает consumers и закрывает соединение.
// Безопасен, если Init не вызывался или завершился ошибкой.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	cancels := t.cancels
	t.cancels = nil
	t.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}

	err := t.conn.Close()
	t.loopsDone.Wait()
	return err
}

// Publish отправляет сообщение в очередь через default exchange.
// Возвращает false, если канала нет или публикация не удалась.
func (t *Transport) Publish(ctx context.Context, queue string, msg domain.Message) bool {
	ch := t.conn.Channel()
	if ch == nil {
		return false
	}

	body, err := codec.Marshal(msg)
	if err != nil {
		t.logger.Error("failed to encode message", "queue", queue, "name", msg.Name, "error", err)
		return false
	}

	messageID := uuid.NewString()
	err = ch.PublishWithContext(
		ctx,
		"",    // default exchange
		queue, // routing key = имя очереди
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Type:         msg.Name,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		t.logger.Warn("publish failed", "queue", queue, "name", msg.Name, "error", err)
		return false
	}

	t.logger.Debug("published message",
		"queue", queue,
		"message_id", messageID,
		"name", msg.Name,
	)

	return true
}

// AttachConsumer устанавливает prefetch и начинает потребление очереди.
//
// onMessage вызывается для каждого декодированного сообщения в отдельной
// горутине; prefetch ограничивает число одновременно неподтверждённых
// сообщений (0 — без лимита). Ack отправляется только после возврата
// onMessage; ошибка onMessage или неразбираемое тело — Nack без requeue.
//
// После переподключения потребление восстанавливается автоматически.
func (t *Transport) AttachConsumer(ctx context.Context, queue string, onMessage domain.MessageHandler, prefetch int) error {
	deliveries, err := t.setupConsume(queue, prefetch)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		cancel()
		return ErrConnectionClosed
	}
	t.cancels = append(t.cancels, cancel)
	t.loopsDone.Add(1)
	t.mu.Unlock()

	t.logger.Info("consumer ready", "queue", queue, "prefetch", prefetch)

	go func() {
		defer t.loopsDone.Done()
		t.consume(ctx, queue, onMessage, prefetch, deliveries)
	}()

	return nil
}

// consume — основной цикл потребления с восстановлением после reconnect.
func (t *Transport) consume(ctx context.Context, queue string, onMessage domain.MessageHandler, prefetch int, deliveries <-chan amqp.Delivery) {
	for {
		t.processDeliveries(ctx, queue, onMessage, deliveries)
		if ctx.Err() != nil {
			return
		}

		t.logger.Warn("deliveries channel closed, waiting for reconnect", "queue", queue)

		// Канал закрыт, ждём переподключения
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.conn.ReconnectNotify():
			}

			var err error
			deliveries, err = t.setupConsume(queue, prefetch)
			if err != nil {
				t.logger.Error("failed to restart consumer", "queue", queue, "error", err)
				continue
			}

			t.logger.Info("reconnected, consumer restarted", "queue", queue)
			break
		}
	}
}

// setupConsume настраивает QoS и начинает потребление.
func (t *Transport) setupConsume(queue string, prefetch int) (<-chan amqp.Delivery, error) {
	ch := t.conn.Channel()
	if ch == nil {
		return nil, ErrNoChannel
	}

	if prefetch < 0 {
		prefetch = 0
	}

	// Устанавливаем prefetch
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	// Начинаем потребление
	deliveries, err := ch.Consume(
		queue, // queue
		"",    // consumer tag (auto-generated)
		false, // auto-ack (мы ack вручную)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}

	return deliveries, nil
}

// processDeliveries раздаёт сообщения обработчикам до закрытия канала доставки.
func (t *Transport) processDeliveries(ctx context.Context, queue string, onMessage domain.MessageHandler, deliveries <-chan amqp.Delivery) {
	var inflight sync.WaitGroup
	defer inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			return

		case raw, ok := <-deliveries:
			if !ok {
				return
			}

			inflight.Add(1)
			go func() {
				defer inflight.Done()
				t.handleDelivery(ctx, queue, onMessage, raw)
			}()
		}
	}
}

// handleDelivery декодирует одно сообщение, вызывает обработчик и подтверждает.
func (t *Transport) handleDelivery(ctx context.Context, queue string, onMessage domain.MessageHandler, raw amqp.Delivery) {
	msg, err := codec.Unmarshal(raw.Body)
	if err != nil {
		t.logger.Error("failed to decode message",
			"queue", queue,
			"error", err,
			"body", string(raw.Body),
		)
		if err := raw.Nack(false, false); err != nil {
			t.logger.Warn("nack failed", "queue", queue, "error", err)
		}
		return
	}

	if err := onMessage(ctx, msg); err != nil {
		if err := raw.Nack(false, false); err != nil {
			t.logger.Warn("nack failed", "queue", queue, "error", err)
		}
		return
	}

	if err := raw.Ack(false); err != nil {
		t.logger.Warn("ack failed", "queue", queue, "name", msg.Name, "error", err)
	}
}
