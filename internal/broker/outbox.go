package broker

import "sync"

// outboundMessage — запрос на отправку, ожидающий публикации.
type outboundMessage struct {
	queue string
	name  string
	data  map[string]any
}

// outbox — неограниченная очередь исходящих сообщений.
//
// push никогда не блокирует; notify будит цикл публикации.
type outbox struct {
	mu     sync.Mutex
	items  []outboundMessage
	closed bool
	notify chan struct{}
}

func newOutbox() *outbox {
	return &outbox{notify: make(chan struct{}, 1)}
}

// push добавляет сообщение. false — outbox закрыт.
func (o *outbox) push(m outboundMessage) bool {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false
	}
	o.items = append(o.items, m)
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
	}
	return true
}

// takeAll забирает все накопленные сообщения в порядке добавления.
func (o *outbox) takeAll() []outboundMessage {
	o.mu.Lock()
	defer o.mu.Unlock()

	items := o.items
	o.items = nil
	return items
}

// close запрещает новые сообщения. Накопленные остаются для takeAll.
func (o *outbox) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
	}
}

func (o *outbox) isClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

func (o *outbox) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}
