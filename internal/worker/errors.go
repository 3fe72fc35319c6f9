package worker

import "errors"

// Ошибки воркера.
var (
	// ErrInvalidConfig — не заданы обязательные поля Config.
	ErrInvalidConfig = errors.New("invalid worker config")
)
