// Package broker даёт сервису интерфейс publish/subscribe по имени
// сообщения, не зависящий от API конкретного брокера.
//
// # Отправка
//
// SendMessage кладёт сообщение в outbox и сразу возвращается. Одна
// горутина публикации передаёт сообщения транспорту в порядке отправки.
// Бизнес-код никогда не ждёт I/O брокера.
//
// # Приём
//
// Для каждого входящего сообщения:
//
//  1. Нет consumer для name — предупреждение, ack
//  2. Иначе Consume(data); ack только после возврата
//
// Ack синхронен с завершением обработки, поэтому prefetch ограничивает
// число одновременно обрабатываемых сообщений: при prefetch = 1
// обработчики одной очереди никогда не выполняются параллельно.
//
// # Ошибки consumer
//
// Ошибка или паника в Consume логируется, сообщение отклоняется без
// requeue (уходит в dead-letter exchange, если он настроен на очереди).
// Воркер продолжает работу, отравленное сообщение не зацикливается.
package broker
