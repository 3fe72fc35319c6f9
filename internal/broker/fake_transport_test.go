package broker

import (
	"context"
	"errors"
	"sync"

	"github.com/shaiso/Hive/internal/domain"
)

// publishedMessage — сообщение, отправленное через fakeTransport.
type publishedMessage struct {
	queue string
	msg   domain.Message
}

// fakeTransport имитирует транспорт: prefetch, ack/reject и публикацию.
type fakeTransport struct {
	mu        sync.Mutex
	initErr   error
	initCalls int
	closed    bool
	asserted  []string
	handler   domain.MessageHandler
	prefetch  int
	published []publishedMessage
	acked     []string
	rejected  []string

	// publishGate, если задан, блокирует Publish до закрытия.
	publishGate chan struct{}

	// publishUntilCancel — Publish ждёт отмены ctx и возвращает false.
	publishUntilCancel bool

	// slots ограничивает число неподтверждённых доставок (prefetch).
	slots chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{}
}

func (f *fakeTransport) Init(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	return f.initErr
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) AssertQueue(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asserted = append(f.asserted, name)
	return nil
}

func (f *fakeTransport) AttachConsumer(_ context.Context, _ string, onMessage domain.MessageHandler, prefetch int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return errors.New("no channel")
	}
	f.handler = onMessage
	f.prefetch = prefetch
	if prefetch > 0 {
		f.slots = make(chan struct{}, prefetch)
	}
	return nil
}

func (f *fakeTransport) Publish(ctx context.Context, queue string, msg domain.Message) bool {
	if f.publishGate != nil {
		<-f.publishGate
	}
	if f.publishUntilCancel {
		<-ctx.Done()
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil || f.closed {
		return false
	}
	f.published = append(f.published, publishedMessage{queue: queue, msg: msg})
	return true
}

// deliver доставляет сообщение как брокер: занимает слот prefetch,
// вызывает обработчик в отдельной горутине и освобождает слот после ack.
// Возвращает канал, закрывающийся после ack/reject.
func (f *fakeTransport) deliver(ctx context.Context, msg domain.Message) <-chan struct{} {
	f.mu.Lock()
	handler := f.handler
	slots := f.slots
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if slots != nil {
			slots <- struct{}{}
			defer func() { <-slots }()
		}

		err := handler(ctx, msg)

		f.mu.Lock()
		defer f.mu.Unlock()
		if err != nil {
			f.rejected = append(f.rejected, msg.Name)
			return
		}
		f.acked = append(f.acked, msg.Name)
	}()
	return done
}

func (f *fakeTransport) snapshot() (published []publishedMessage, acked, rejected []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedMessage(nil), f.published...),
		append([]string(nil), f.acked...),
		append([]string(nil), f.rejected...)
}
