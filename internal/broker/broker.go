package broker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/telemetry"
)

// Transport — примитивы внешнего брокера, от которых зависит Broker.
// Реализация для RabbitMQ — mq.Transport.
type Transport interface {
	// Init открывает соединение и канал.
	Init(ctx context.Context) error

	// Close закрывает соединение. Безопасен без Init.
	Close() error

	// AssertQueue объявляет очередь.
	AssertQueue(ctx context.Context, name string) error

	// AttachConsumer устанавливает prefetch и начинает потребление.
	// Ack после возврата onMessage без ошибки, иначе reject.
	AttachConsumer(ctx context.Context, queue string, onMessage domain.MessageHandler, prefetch int) error

	// Publish отправляет сообщение. false — канала нет или отправка не удалась.
	Publish(ctx context.Context, queue string, msg domain.Message) bool
}

// Broker — интерфейс publish/subscribe по имени сообщения поверх
// одного соединения с внешним брокером.
//
// Broker:
//   - Хранит реестр consumers (имя сообщения → consumer)
//   - Отвязывает SendMessage от публикации через outbox и одну горутину публикации
//   - Управляет жизненным циклом connect → declare → consume одной очереди
type Broker struct {
	transport Transport
	queue     string
	logger    *slog.Logger

	mu          sync.RWMutex
	consumers   map[string]MessageConsumer
	sealed      bool
	initialized bool
	closed      bool

	outbox       *outbox
	flushTimeout time.Duration
	cancel       context.CancelFunc
	publishDone  chan struct{}
}

// DefaultFlushTimeout — сколько Close ждёт отправки накопленных сообщений.
const DefaultFlushTimeout = 5 * time.Second

// Config — конфигурация Broker.
type Config struct {
	// Transport — транспорт внешнего брокера.
	Transport Transport

	// Queue — очередь для потребления. Пустая — режим только отправки.
	Queue string

	// FlushTimeout — ожидание отправки outbox в Close.
	// После него публикация отменяется. 0 — DefaultFlushTimeout.
	FlushTimeout time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Broker. Подключение выполняет Init.
func New(cfg Config) *Broker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	flushTimeout := cfg.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = DefaultFlushTimeout
	}

	return &Broker{
		transport:    cfg.Transport,
		queue:        cfg.Queue,
		logger:       logger,
		consumers:    make(map[string]MessageConsumer),
		outbox:       newOutbox(),
		flushTimeout: flushTimeout,
	}
}

// Queue возвращает имя очереди брокера.
func (b *Broker) Queue() string {
	return b.queue
}

// Consumers возвращает отсортированный список зарегистрированных имён.
func (b *Broker) Consumers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.consumers))
	for name := range b.consumers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Init подключает транспорт и начинает потребление очереди.
//
//  1. Транспорт Init (ошибка логируется, брокер остаётся без соединения)
//  2. Запуск горутины публикации
//  3. Пустая очередь — режим только отправки, выходим
//  4. AssertQueue и AttachConsumer с заданным prefetch (0 — без лимита)
//
// Реестр consumers закрывается для изменений. Повторный вызов ничего не делает.
func (b *Broker) Init(ctx context.Context, prefetch int) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	if b.initialized {
		b.mu.Unlock()
		return nil
	}
	b.initialized = true
	b.sealed = true

	// Горутины брокера живут до Close, а не до отмены ctx вызывающего
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b.cancel = cancel
	b.publishDone = make(chan struct{})
	consumers := len(b.consumers)
	b.mu.Unlock()

	transportErr := b.transport.Init(ctx)
	if transportErr != nil {
		b.logger.Error("failed to initialize transport", "queue", b.queue, "error", transportErr)
	}

	go b.publishLoop(runCtx)

	if b.queue == "" {
		b.logger.Info("broker initialized in send-only mode")
		return nil
	}

	if transportErr != nil {
		b.logger.Warn("broker has no connection, consuming disabled", "queue", b.queue)
		return nil
	}

	if err := b.transport.AssertQueue(ctx, b.queue); err != nil {
		return fmt.Errorf("assert queue %s: %w", b.queue, err)
	}

	if err := b.transport.AttachConsumer(runCtx, b.queue, b.dispatch, prefetch); err != nil {
		return fmt.Errorf("attach consumer %s: %w", b.queue, err)
	}

	b.logger.Info("broker initialized",
		"queue", b.queue,
		"prefetch", prefetch,
		"consumers", consumers,
	)

	return nil
}

// Close отправляет накопленные сообщения, останавливает горутину
// публикации и закрывает транспорт. Безопасен без Init и после неудачного Init.
//
// Отправка outbox ограничена FlushTimeout: по его истечении контекст
// публикации отменяется, а неотправленные сообщения отбрасываются.
func (b *Broker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	cancel := b.cancel
	done := b.publishDone
	b.mu.Unlock()

	b.outbox.close()

	if done != nil {
		b.waitFlush(done, cancel)
	} else if pending := b.outbox.len(); pending > 0 {
		b.logger.Warn("broker closed before init, outbound messages dropped", "count", pending)
	}

	if cancel != nil {
		cancel()
	}

	if err := b.transport.Close(); err != nil {
		return fmt.Errorf("close transport: %w", err)
	}

	b.logger.Debug("broker closed", "queue", b.queue)
	return nil
}

// waitFlush ждёт завершения горутины публикации не дольше flushTimeout.
func (b *Broker) waitFlush(done <-chan struct{}, cancel context.CancelFunc) {
	timer := time.NewTimer(b.flushTimeout)
	defer timer.Stop()

	select {
	case <-done:
		return
	case <-timer.C:
	}

	b.logger.Warn("outbox flush timed out, cancelling publish",
		"queue", b.queue,
		"timeout", b.flushTimeout,
	)
	cancel()
	<-done
}

// SendMessage ставит сообщение {name, data} в очередь на отправку в targetQueue.
//
// Не блокирует и не ждёт брокера: публикацию выполняет горутина
// публикации, её результат не возвращается вызывающему.
// Сообщения, отправленные до Init, уходят после подключения.
func (b *Broker) SendMessage(targetQueue, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}

	if !b.outbox.push(outboundMessage{queue: targetQueue, name: name, data: data}) {
		b.logger.Warn("broker closed, message dropped", "target", targetQueue, "name", name)
		return
	}

	telemetry.OutboxDepth.WithLabelValues(b.queue).Set(float64(b.outbox.len()))
}

// RegisterConsumer создаёт consumer фабрикой и связывает его с именем сообщения.
//
// Consumer получает SendMessage этого брокера и args. Регистрация
// возможна только до Init: после него возвращается ErrConsumersSealed,
// а сообщения с этим именем отбрасываются.
func (b *Broker) RegisterConsumer(name string, factory ConsumerFactory, args ...any) error {
	if name == "" || factory == nil {
		return fmt.Errorf("%w: name and factory are required", ErrInvalidConsumer)
	}

	b.mu.RLock()
	sealed := b.sealed
	b.mu.RUnlock()
	if sealed {
		return fmt.Errorf("%w: %s", ErrConsumersSealed, name)
	}

	consumer := factory(b.SendMessage, args...)
	if consumer == nil {
		return fmt.Errorf("%w: factory for %s returned nil", ErrInvalidConsumer, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		return fmt.Errorf("%w: %s", ErrConsumersSealed, name)
	}
	if _, exists := b.consumers[name]; exists {
		b.logger.Warn("consumer replaced", "name", name)
	}
	b.consumers[name] = consumer

	return nil
}

// dispatch — обработчик входящих сообщений транспорта.
//
// Нет consumer — предупреждение и ack (повторная доставка бессмысленна).
// Иначе Consume; ack отправляет транспорт после возврата. Ошибка
// или паника consumer возвращается транспорту, и тот отклоняет
// сообщение без requeue.
func (b *Broker) dispatch(ctx context.Context, msg domain.Message) error {
	b.mu.RLock()
	consumer, ok := b.consumers[msg.Name]
	b.mu.RUnlock()

	if !ok {
		b.logger.Warn("message discarded as no consumer is registered",
			"queue", b.queue,
			"name", msg.Name,
		)
		telemetry.MessagesDiscarded.WithLabelValues(b.queue, msg.Name).Inc()
		return nil
	}

	start := time.Now()
	err := b.invoke(ctx, consumer, msg)
	telemetry.ConsumeDuration.WithLabelValues(b.queue, msg.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		b.logger.Error("consumer failed, message rejected",
			"queue", b.queue,
			"name", msg.Name,
			"error", err,
		)
		telemetry.MessagesConsumed.WithLabelValues(b.queue, msg.Name, "rejected").Inc()
		return err
	}

	telemetry.MessagesConsumed.WithLabelValues(b.queue, msg.Name, "ack").Inc()
	return nil
}

// invoke вызывает Consume, превращая панику в ошибку.
func (b *Broker) invoke(ctx context.Context, consumer MessageConsumer, msg domain.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("consumer panic recovered",
				"name", msg.Name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%w: %v", ErrConsumerPanic, r)
		}
	}()

	return consumer.Consume(ctx, msg.Data)
}

// publishLoop — единственная горутина, передающая исходящие сообщения транспорту.
// Завершается, когда outbox закрыт и пуст.
func (b *Broker) publishLoop(ctx context.Context) {
	defer close(b.publishDone)

	for {
		for _, m := range b.outbox.takeAll() {
			if ctx.Err() != nil {
				b.logger.Warn("publish cancelled, message dropped", "target", m.queue, "name", m.name)
				telemetry.MessagesPublished.WithLabelValues(m.queue, "failed").Inc()
				continue
			}
			b.publish(ctx, m)
		}
		telemetry.OutboxDepth.WithLabelValues(b.queue).Set(float64(b.outbox.len()))

		if b.outbox.isClosed() && b.outbox.len() == 0 {
			return
		}

		select {
		case <-b.outbox.notify:
		case <-ctx.Done():
			return
		}
	}
}

func (b *Broker) publish(ctx context.Context, m outboundMessage) {
	ok := b.transport.Publish(ctx, m.queue, domain.Message{Name: m.name, Data: m.data})
	if !ok {
		b.logger.Warn("message not published", "target", m.queue, "name", m.name)
		telemetry.MessagesPublished.WithLabelValues(m.queue, "failed").Inc()
		return
	}
	telemetry.MessagesPublished.WithLabelValues(m.queue, "ok").Inc()
}
