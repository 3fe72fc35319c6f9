// Package echo — сервис, отвечающий pong на ping.
//
// Сообщение ping с полем reply_to получает ответ pong с теми же данными
// (без reply_to) в очередь reply_to. Без reply_to ping только логируется.
package echo

import (
	"context"
	"log/slog"

	"github.com/shaiso/Hive/internal/broker"
	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/service"
)

const (
	// ServiceType — тип сервиса в конфигурации.
	ServiceType = "echo"

	// MessagePing — входящее сообщение.
	MessagePing = "ping"

	// MessagePong — ответ.
	MessagePong = "pong"

	replyToKey = "reply_to"
)

// Service — echo сервис.
type Service struct {
	service.Base
	logger *slog.Logger
}

// New создаёт echo сервис и регистрирует consumer для ping.
func New(b *broker.Broker, d *domain.ServiceDescriptor, logger *slog.Logger) (service.Service, error) {
	if err := b.RegisterConsumer(MessagePing, NewPingConsumer, logger); err != nil {
		return nil, err
	}

	return &Service{
		Base:   service.NewBase(b, d),
		logger: logger,
	}, nil
}

// Run ничего не запускает: вся работа в consumer.
func (s *Service) Run(context.Context) error {
	s.logger.Info("echo service running", "queue", s.Broker().Queue())
	return nil
}

// PingConsumer отвечает на ping.
type PingConsumer struct {
	send   broker.SendFunc
	logger *slog.Logger
}

// NewPingConsumer — broker.ConsumerFactory. Принимает *slog.Logger в args.
func NewPingConsumer(send broker.SendFunc, args ...any) broker.MessageConsumer {
	c := &PingConsumer{send: send, logger: slog.Default()}
	for _, arg := range args {
		if logger, ok := arg.(*slog.Logger); ok && logger != nil {
			c.logger = logger
		}
	}
	return c
}

// Consume отправляет pong в reply_to.
func (c *PingConsumer) Consume(_ context.Context, data map[string]any) error {
	replyTo, _ := data[replyToKey].(string)
	if replyTo == "" {
		c.logger.Info("ping received without reply_to", "keys", len(data))
		return nil
	}

	reply := make(map[string]any, len(data))
	for k, v := range data {
		if k == replyToKey {
			continue
		}
		reply[k] = v
	}

	c.send(replyTo, MessagePong, reply)
	return nil
}
