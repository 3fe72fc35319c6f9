// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики брокера и оркестратора
//
// Все процессы используют единый формат логирования; строки воркера
// несут атрибуты instance и service.
package telemetry
