package mq

import (
	"context"
	"fmt"
)

// AssertQueue объявляет очередь сервиса, если её ещё нет.
//
// Параметры совпадают с умолчаниями amqplib: durable, без auto-delete,
// не exclusive. Dead-letter и прочие аргументы задаёт оператор
// политиками RabbitMQ, а не код.
func (t *Transport) AssertQueue(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch := t.conn.Channel()
	if ch == nil {
		return ErrNoChannel
	}

	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}

	t.logger.Debug("queue declared", "queue", name)
	return nil
}
