// Package domain содержит модель данных Hive.
//
// Основные типы:
//   - ServiceDescriptor — что запускать и с какой конфигурацией
//   - Message — сообщение брокера {name, data}
//   - LifecycleState / Control — состояния и сообщения handshake
//   - WorkerStatus — состояние запуска воркера для status API и журнала
package domain
