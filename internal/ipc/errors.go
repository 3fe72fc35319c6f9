package ipc

import "errors"

// Ошибки канала.
var (
	// ErrChannelClosed — канал закрыт.
	ErrChannelClosed = errors.New("control channel closed")

	// ErrInvalidMessage — сообщение содержит перевод строки.
	ErrInvalidMessage = errors.New("control message must be a single line")

	// ErrNoControlChannel — процесс запущен без управляющего канала.
	ErrNoControlChannel = errors.New("control channel is not configured")
)
