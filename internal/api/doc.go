// Package api — HTTP API состояния оркестратора.
//
// Структура:
//   - handler.go   — Handler и источник состояния воркеров
//   - routes.go    — регистрация маршрутов
//   - middleware.go — middleware (logging, recovery, metrics)
//   - response.go  — унифицированные JSON-ответы
//   - dto.go       — ответы API
//
// API только читает: воркеры запускаются оркестратором при старте,
// управлять ими через API нельзя.
package api
