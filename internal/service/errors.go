package service

import "errors"

var (
	// ErrUnknownService — тип сервиса не зарегистрирован в реестре.
	ErrUnknownService = errors.New("unknown service type")

	// ErrInvalidConfiguration — конфигурация сервиса некорректна.
	ErrInvalidConfiguration = errors.New("invalid service configuration")
)
