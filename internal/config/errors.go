package config

import "errors"

// Ошибки конфигурации.
var (
	// ErrInvalidEnvironment — переменные окружения не разобраны.
	ErrInvalidEnvironment = errors.New("invalid environment")

	// ErrInvalidConfig — файл дескрипторов не разобран или не прошёл проверку.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNoServiceData — воркер запущен без SERVICE_DATA.
	ErrNoServiceData = errors.New("SERVICE_DATA is not set")
)
