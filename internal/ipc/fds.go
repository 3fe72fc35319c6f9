package ipc

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	// EnvControlFDs — переменная с номерами дескрипторов канала: "<in>,<out>".
	EnvControlFDs = "HIVE_CONTROL_FDS"

	// ChildControlFDs — значение EnvControlFDs для процессов, запущенных
	// с ExtraFiles{commands, events}.
	ChildControlFDs = "3,4"
)

// ParseFDs разбирает значение EnvControlFDs.
func ParseFDs(value string) (in, out int, err error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%s: expected \"<in>,<out>\", got %q", EnvControlFDs, value)
	}

	in, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%s: invalid input fd: %w", EnvControlFDs, err)
	}

	out, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%s: invalid output fd: %w", EnvControlFDs, err)
	}

	if in < 3 || out < 3 || in == out {
		return 0, 0, fmt.Errorf("%s: invalid fd pair %d,%d", EnvControlFDs, in, out)
	}

	return in, out, nil
}

// FromEnv открывает канал воркера по дескрипторам из HIVE_CONTROL_FDS.
func FromEnv(getenv func(string) string, logger *slog.Logger) (*PipeChannel, error) {
	value := getenv(EnvControlFDs)
	if value == "" {
		return nil, ErrNoControlChannel
	}

	in, out, err := ParseFDs(value)
	if err != nil {
		return nil, err
	}

	r := os.NewFile(uintptr(in), "hive-control-in")
	w := os.NewFile(uintptr(out), "hive-control-out")
	if r == nil || w == nil {
		return nil, fmt.Errorf("%w: fds %s", ErrNoControlChannel, value)
	}

	return NewPipeChannel(r, w, logger), nil
}
