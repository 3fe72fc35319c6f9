// Package orchestrator запускает воркеры и проводит их через handshake.
//
// Для каждого дескриптора сервиса Orchestrator:
//   - Создаёт процесс воркера через Spawner
//   - Ведёт handshake по управляющему каналу:
//     ready → init → initialized → run → running
//   - Отмечает переходы в Tracker и журнале запусков
//
// Каждый воркер получает одну попытку. Неудача одного воркера не
// влияет на остальных; StartAll возвращает итог по всем.
//
// Оркестратор не перезапускает и не останавливает воркеры.
package orchestrator
