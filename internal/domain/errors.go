package domain

import "errors"

// Ошибки доменной модели.
var (
	// ErrInvalidDescriptor — дескриптор сервиса не прошёл валидацию.
	ErrInvalidDescriptor = errors.New("invalid service descriptor")

	// ErrInvalidMessage — сообщение не соответствует формату {name, data}.
	ErrInvalidMessage = errors.New("invalid message")
)
