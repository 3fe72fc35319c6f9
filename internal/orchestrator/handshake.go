package orchestrator

import (
	"fmt"

	"github.com/shaiso/Hive/internal/domain"
)

// Handshake — автомат состояний запуска одного воркера.
//
// Принимает только следующее ожидаемое сообщение:
//
//	SPAWNED     + ready       → READY,       ответ init
//	READY       + initialized → INITIALIZED, ответ run
//	INITIALIZED + running     → RUNNING
//
// Принадлежит горутине, ведущей воркер; не потокобезопасен.
type Handshake struct {
	state domain.LifecycleState
}

// NewHandshake создаёт автомат в состоянии SPAWNED.
func NewHandshake() *Handshake {
	return &Handshake{state: domain.StateSpawned}
}

// State возвращает текущее состояние.
func (h *Handshake) State() domain.LifecycleState {
	return h.state
}

// Handle применяет сообщение воркера.
//
// Возвращает команду для отправки воркеру (пустая — отправлять нечего).
// Неизвестное или несвоевременное сообщение состояние не меняет.
func (h *Handshake) Handle(msg domain.Control) (domain.Control, error) {
	if !msg.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownControl, string(msg))
	}

	switch {
	case h.state == domain.StateSpawned && msg == domain.ControlReady:
		h.state = domain.StateReady
		return domain.ControlInit, nil

	case h.state == domain.StateReady && msg == domain.ControlInitialized:
		h.state = domain.StateInitialized
		return domain.ControlRun, nil

	case h.state == domain.StateInitialized && msg == domain.ControlRunning:
		h.state = domain.StateRunning
		return "", nil
	}

	return "", fmt.Errorf("%w: %s in state %s", ErrUnexpectedControl, msg, h.state)
}
