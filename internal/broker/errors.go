package broker

import "errors"

// Ошибки брокера сообщений.
var (
	// ErrConsumersSealed — регистрация consumer после начала потребления.
	ErrConsumersSealed = errors.New("consumers are sealed after init")

	// ErrInvalidConsumer — пустое имя сообщения или фабрика вернула nil.
	ErrInvalidConsumer = errors.New("invalid consumer registration")

	// ErrConsumerPanic — consumer запаниковал во время Consume.
	ErrConsumerPanic = errors.New("consumer panicked")

	// ErrBrokerClosed — брокер закрыт.
	ErrBrokerClosed = errors.New("broker closed")
)
