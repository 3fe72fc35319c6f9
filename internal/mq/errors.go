package mq

import "errors"

// Ошибки транспорта.
var (
	// ErrNoChannel — канал не открыт (Init не выполнен или уже Close).
	ErrNoChannel = errors.New("no channel available")

	// ErrConnectionClosed — соединение закрыто через Close.
	ErrConnectionClosed = errors.New("connection closed")
)
