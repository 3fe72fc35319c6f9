package domain

// LifecycleState — состояние воркера в процессе запуска.
//
// Жизненный цикл:
//
//	SPAWNED → READY → INITIALIZED → RUNNING
//
// Переходы выполняются только управляющими сообщениями по каналу процесса.
// FAILED — не состояние handshake, а отметка для отчётности
// (status API, журнал запусков): попытка запуска не удалась.
type LifecycleState string

const (
	// StateSpawned — процесс воркера создан, ready ещё не получен.
	StateSpawned LifecycleState = "SPAWNED"

	// StateReady — воркер создал broker и сервис, ждёт init.
	StateReady LifecycleState = "READY"

	// StateInitialized — init сервиса выполнен.
	StateInitialized LifecycleState = "INITIALIZED"

	// StateRunning — сервис запущен, отслеживание завершено.
	StateRunning LifecycleState = "RUNNING"

	// StateFailed — запуск воркера не удался.
	StateFailed LifecycleState = "FAILED"
)

// IsTerminal возвращает true, если оркестратор больше не отслеживает воркер.
func (s LifecycleState) IsTerminal() bool {
	switch s {
	case StateRunning, StateFailed:
		return true
	default:
		return false
	}
}

// Control — управляющее сообщение канала оркестратор ↔ воркер.
// Сравнение регистрозависимое.
type Control string

const (
	// ControlReady — воркер → оркестратор: broker и сервис созданы.
	ControlReady Control = "ready"

	// ControlInit — оркестратор → воркер: выполнить init.
	ControlInit Control = "init"

	// ControlInitialized — воркер → оркестратор: init выполнен.
	ControlInitialized Control = "initialized"

	// ControlRun — оркестратор → воркер: выполнить run.
	ControlRun Control = "run"

	// ControlRunning — воркер → оркестратор: сервис запущен.
	ControlRunning Control = "running"
)

// IsKnown проверяет, входит ли сообщение в протокол handshake.
func (c Control) IsKnown() bool {
	switch c {
	case ControlReady, ControlInit, ControlInitialized, ControlRun, ControlRunning:
		return true
	default:
		return false
	}
}
