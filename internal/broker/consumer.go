package broker

import "context"

// SendFunc отправляет сообщение {name, data} в очередь targetQueue.
// Не блокирует вызывающего; результат публикации не возвращается.
type SendFunc func(targetQueue, name string, data map[string]any)

// MessageConsumer обрабатывает сообщения одного имени.
//
// Consume вызывается для каждого входящего сообщения; ack отправляется
// только после возврата. Ошибка или паника — сообщение отклоняется
// без повторной доставки.
type MessageConsumer interface {
	Consume(ctx context.Context, data map[string]any) error
}

// ConsumerFactory создаёт consumer, привязанный к SendMessage брокера.
// args — произвольные аргументы, переданные в RegisterConsumer.
type ConsumerFactory func(send SendFunc, args ...any) MessageConsumer

// ConsumerFunc позволяет использовать функцию как MessageConsumer.
type ConsumerFunc func(ctx context.Context, data map[string]any) error

// Consume вызывает f.
func (f ConsumerFunc) Consume(ctx context.Context, data map[string]any) error {
	return f(ctx, data)
}
