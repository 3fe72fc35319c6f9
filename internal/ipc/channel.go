package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
)

// Channel — управляющий канал.
type Channel interface {
	// Send отправляет одно сообщение.
	Send(msg string) error

	// Messages возвращает входящие сообщения. Закрывается при EOF или Close.
	Messages() <-chan string

	// Close закрывает обе стороны канала.
	Close() error
}

// messageBuffer — ёмкость буфера входящих сообщений.
const messageBuffer = 16

// PipeChannel — Channel поверх пары потоков (трубы, файловые дескрипторы).
type PipeChannel struct {
	r      io.ReadCloser
	w      io.WriteCloser
	logger *slog.Logger

	messages chan string
	done     chan struct{}

	wmu       sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewPipeChannel создаёт канал и запускает горутину чтения r.
func NewPipeChannel(r io.ReadCloser, w io.WriteCloser, logger *slog.Logger) *PipeChannel {
	if logger == nil {
		logger = slog.Default()
	}

	c := &PipeChannel{
		r:        r,
		w:        w,
		logger:   logger,
		messages: make(chan string, messageBuffer),
		done:     make(chan struct{}),
	}

	go c.readLoop()

	return c
}

// Send записывает сообщение и перевод строки.
func (c *PipeChannel) Send(msg string) error {
	if strings.ContainsAny(msg, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidMessage, msg)
	}

	if c.closed.Load() {
		return ErrChannelClosed
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if _, err := io.WriteString(c.w, msg+"\n"); err != nil {
		if isClosedErr(err) {
			return ErrChannelClosed
		}
		return fmt.Errorf("write control message: %w", err)
	}

	return nil
}

// Messages возвращает канал входящих сообщений.
func (c *PipeChannel) Messages() <-chan string {
	return c.messages
}

// Close закрывает запись и чтение. Прерывает заблокированный Send.
// Повторный вызов ничего не делает.
func (c *PipeChannel) Close() error {
	var err error

	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		err = errors.Join(c.w.Close(), c.r.Close())
	})

	return err
}

func (c *PipeChannel) readLoop() {
	defer close(c.messages)

	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		msg := strings.TrimSuffix(scanner.Text(), "\r")
		if msg == "" {
			continue
		}

		select {
		case c.messages <- msg:
		case <-c.done:
			return
		}
	}

	if err := scanner.Err(); err != nil && !isClosedErr(err) {
		c.logger.Warn("control channel read failed", "error", err)
	}
}

func isClosedErr(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.EPIPE)
}

// Pair создаёт два связанных канала в памяти. Для тестов и встраивания
// воркера в один процесс с оркестратором.
func Pair(logger *slog.Logger) (*PipeChannel, *PipeChannel) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()

	return NewPipeChannel(ar, aw, logger), NewPipeChannel(br, bw, logger)
}
