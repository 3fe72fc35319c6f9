// Package cli реализует инструмент командной строки Hive.
//
// # Обзор
//
// CLI — клиентская утилита оператора:
//   - Просмотр состояния воркеров через status API оркестратора
//   - Отправка сообщения в очередь сервиса
//   - Проверка файла дескрипторов сервисов
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для status API. Инкапсулирует запросы, парсинг ответов
// (DataResponse, ListResponse, ErrorResponse) и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8090")
//	workers, err := client.ListWorkers("")
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Warn) — в stderr.
// Это позволяет использовать pipe: hive-cli workers list --json | jq .
//
// ## Commands
//
//   - workers: list, show, summary
//   - send: --queue, --name, --data
//   - config: check
//   - services
//
// Каждая группа создаётся фабричной функцией (NewWorkersCmd и т.д.),
// принимающей замыкания для ленивого создания Client, Output и
// транспорта после парсинга PersistentFlags.
package cli
