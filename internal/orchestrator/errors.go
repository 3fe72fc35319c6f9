package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrSpawnFailed — не удалось создать процесс воркера.
	ErrSpawnFailed = errors.New("spawn failed")

	// ErrChannelClosed — канал воркера закрылся до running (процесс завершился).
	ErrChannelClosed = errors.New("worker channel closed before running")

	// ErrUnknownControl — сообщение не из протокола handshake.
	ErrUnknownControl = errors.New("unknown control message")

	// ErrUnexpectedControl — сообщение протокола не в своё время.
	ErrUnexpectedControl = errors.New("unexpected control message")

	// ErrStartupPanic — паника в горутине запуска воркера.
	ErrStartupPanic = errors.New("worker startup panicked")
)
