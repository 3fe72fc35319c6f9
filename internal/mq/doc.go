// Package mq предоставляет транспорт RabbitMQ для брокера сообщений.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - config.go     — параметры подключения {hostname, port, username, password, vhost}
//   - topology.go   — объявление очереди сервиса
//   - transport.go  — публикация и потребление с ручным ack
//
// Сообщения публикуются через default exchange: routing key равен имени
// очереди-получателя (очередь называется по имени экземпляра сервиса).
package mq
