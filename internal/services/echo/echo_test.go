package echo

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/shaiso/Hive/internal/broker"
	"github.com/shaiso/Hive/internal/codec"
	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/telemetry"
)

type sent struct {
	queue string
	name  string
	data  map[string]any
}

func TestPingConsumer_RepliesToQueue(t *testing.T) {
	var got []sent
	send := func(queue, name string, data map[string]any) {
		got = append(got, sent{queue, name, data})
	}

	c := NewPingConsumer(send, telemetry.Discard())
	err := c.Consume(context.Background(), map[string]any{"reply_to": "caller", "n": int64(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(got))
	}
	if got[0].queue != "caller" || got[0].name != MessagePong {
		t.Errorf("unexpected reply %+v", got[0])
	}
	if _, ok := got[0].data["reply_to"]; ok {
		t.Error("reply should not contain reply_to")
	}
	if got[0].data["n"] != int64(7) {
		t.Errorf("expected n=7, got %v", got[0].data["n"])
	}
}

func TestPingConsumer_WithoutReplyTo(t *testing.T) {
	called := false
	send := func(string, string, map[string]any) { called = true }

	c := NewPingConsumer(send)
	if err := c.Consume(context.Background(), map[string]any{"n": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("no reply expected without reply_to")
	}
}

// Сценарий: ping с max int64 доходит до consumer без округления.
func TestPingConsumer_LargeIntegerFromWire(t *testing.T) {
	msg, err := codec.Unmarshal([]byte(`{"name":"ping","data":{"n":9223372036854775807,"big":"0x1FFFFFFFFFFFFFFFFn","reply_to":"r"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var reply map[string]any
	c := NewPingConsumer(func(_, _ string, data map[string]any) { reply = data })
	if err := c.Consume(context.Background(), msg.Data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply["n"] != int64(9223372036854775807) {
		t.Errorf("expected exact max int64, got %v", reply["n"])
	}
	want, _ := new(big.Int).SetString("1FFFFFFFFFFFFFFFF", 16)
	if b, ok := reply["big"].(*big.Int); !ok || b.Cmp(want) != 0 {
		t.Errorf("expected big integer preserved, got %#v", reply["big"])
	}
}

func TestNew_RegistersPingConsumer(t *testing.T) {
	b := broker.New(broker.Config{Queue: "echo-1", Logger: telemetry.Discard()})
	d := &domain.ServiceDescriptor{Service: ServiceType, Name: "echo-1"}

	svc, err := New(b, d, telemetry.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("service should be created")
	}

	consumers := b.Consumers()
	if len(consumers) != 1 || consumers[0] != MessagePing {
		t.Errorf("expected ping consumer, got %v", consumers)
	}

	// Повторная регистрация того же имени до Init разрешена
	if _, err := New(b, d, telemetry.Discard()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := svc.Run(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_AfterInitFails(t *testing.T) {
	b := broker.New(broker.Config{Transport: nopTransport{}, Logger: telemetry.Discard()})
	defer b.Close()

	if err := b.Init(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := New(b, &domain.ServiceDescriptor{Service: ServiceType, Name: "x"}, telemetry.Discard())
	if !errors.Is(err, broker.ErrConsumersSealed) {
		t.Errorf("expected ErrConsumersSealed, got %v", err)
	}
}

type nopTransport struct{}

func (nopTransport) Init(context.Context) error                { return nil }
func (nopTransport) Close() error                              { return nil }
func (nopTransport) AssertQueue(context.Context, string) error { return nil }
func (nopTransport) AttachConsumer(context.Context, string, domain.MessageHandler, int) error {
	return nil
}
func (nopTransport) Publish(context.Context, string, domain.Message) bool { return true }
