// Package ipc — управляющий канал между оркестратором и воркером.
//
// Канал упорядоченный, двунаправленный и принадлежит одной паре
// процессов. Сообщения — строки без перевода строки, по одной на строку.
//
// Между процессами канал — две трубы, переданные воркеру как
// дополнительные файловые дескрипторы:
//
//	fd 3 — команды оркестратора (воркер читает)
//	fd 4 — события воркера (воркер пишет)
//
// Номера дескрипторов передаются в переменной HIVE_CONTROL_FDS ("3,4").
package ipc
