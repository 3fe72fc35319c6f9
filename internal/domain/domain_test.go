package domain

import (
	"errors"
	"testing"
)

func TestParseDescriptor(t *testing.T) {
	d, err := ParseDescriptor([]byte(`{"service":"echo","name":"echo-1","prefetch":3,"configuration":{"k":"v"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Service != "echo" || d.Name != "echo-1" {
		t.Errorf("unexpected descriptor: %+v", d)
	}
	if d.PrefetchValue() != 3 {
		t.Errorf("expected prefetch 3, got %d", d.PrefetchValue())
	}
	if d.Configuration["k"] != "v" {
		t.Errorf("unexpected configuration: %v", d.Configuration)
	}
}

func TestParseDescriptor_Defaults(t *testing.T) {
	d, err := ParseDescriptor([]byte(`{"service":"echo","name":"echo-1"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.PrefetchValue() != 0 {
		t.Errorf("expected unlimited prefetch, got %d", d.PrefetchValue())
	}
	if d.Configuration == nil {
		t.Error("configuration should default to empty map")
	}
}

func TestParseDescriptor_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `service=echo`},
		{"missing service", `{"name":"x"}`},
		{"missing name", `{"service":"echo"}`},
		{"negative prefetch", `{"service":"echo","name":"x","prefetch":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDescriptor([]byte(tt.data)); !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("expected ErrInvalidDescriptor, got %v", err)
			}
		})
	}
}

func TestDescriptor_EncodeRoundTrip(t *testing.T) {
	prefetch := uint(7)
	d := ServiceDescriptor{
		Service:       "ticker",
		Name:          "ticker-1",
		Prefetch:      &prefetch,
		Configuration: map[string]any{"schedule": "@hourly"},
	}

	data, err := d.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseDescriptor([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Name != d.Name || parsed.PrefetchValue() != 7 || parsed.Configuration["schedule"] != "@hourly" {
		t.Errorf("round trip mismatch: %+v", parsed)
	}
}

func TestLifecycleState_IsTerminal(t *testing.T) {
	tests := []struct {
		state LifecycleState
		want  bool
	}{
		{StateSpawned, false},
		{StateReady, false},
		{StateInitialized, false},
		{StateRunning, true},
		{StateFailed, true},
	}

	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestControl_IsKnown(t *testing.T) {
	for _, c := range []Control{ControlReady, ControlInit, ControlInitialized, ControlRun, ControlRunning} {
		if !c.IsKnown() {
			t.Errorf("%s should be known", c)
		}
	}

	for _, c := range []Control{"", "Ready", "stop", "running "} {
		if c.IsKnown() {
			t.Errorf("%q should not be known", c)
		}
	}
}
