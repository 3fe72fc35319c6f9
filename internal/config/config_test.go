package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Hive/internal/domain"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadEnvironment_Defaults(t *testing.T) {
	env, err := LoadEnvironmentFrom(envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.AppEnv != "production" {
		t.Errorf("expected production, got %q", env.AppEnv)
	}
	if env.ConfigDir != "config" {
		t.Errorf("expected config dir, got %q", env.ConfigDir)
	}
	if len(env.Services) != 0 {
		t.Errorf("expected no filter, got %v", env.Services)
	}
	if env.RabbitMQ.AMQPURL() == "" {
		t.Error("expected default RabbitMQ URL")
	}
}

func TestLoadEnvironment_Values(t *testing.T) {
	env, err := LoadEnvironmentFrom(envMap(map[string]string{
		"NODE_ENV":          "staging",
		"SERVICES":          " echo-1  ticker-1 ",
		"RABBITMQ_HOSTNAME": "rabbit",
		"RABBITMQ_PORT":     "5673",
		"RABBITMQ_USERNAME": "hive",
		"RABBITMQ_PASSWORD": "secret",
		"RABBITMQ_VHOST":    "hive",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.AppEnv != "staging" {
		t.Errorf("NODE_ENV should be used as fallback, got %q", env.AppEnv)
	}
	if len(env.Services) != 2 || env.Services[0] != "echo-1" || env.Services[1] != "ticker-1" {
		t.Errorf("unexpected services: %q", env.Services)
	}
	uri, err := amqp.ParseURI(env.RabbitMQ.AMQPURL())
	if err != nil {
		t.Fatalf("invalid URL %s: %v", env.RabbitMQ.AMQPURL(), err)
	}
	if uri.Host != "rabbit" || uri.Port != 5673 || uri.Username != "hive" || uri.Password != "secret" || uri.Vhost != "hive" {
		t.Errorf("unexpected URI: %+v", uri)
	}
}

func TestLoadEnvironment_AppEnvWins(t *testing.T) {
	env, err := LoadEnvironmentFrom(envMap(map[string]string{
		"APP_ENV":  "development",
		"NODE_ENV": "staging",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.AppEnv != "development" {
		t.Errorf("expected development, got %q", env.AppEnv)
	}
}

func TestLoadEnvironment_InvalidPort(t *testing.T) {
	_, err := LoadEnvironmentFrom(envMap(map[string]string{
		"RABBITMQ_HOSTNAME": "rabbit",
		"RABBITMQ_PORT":     "amqp",
	}))
	if !errors.Is(err, ErrInvalidEnvironment) {
		t.Errorf("expected ErrInvalidEnvironment, got %v", err)
	}
}

func TestEnvironment_Descriptor(t *testing.T) {
	env := &Environment{}
	if _, err := env.Descriptor(); !errors.Is(err, ErrNoServiceData) {
		t.Errorf("expected ErrNoServiceData, got %v", err)
	}

	env.ServiceData = `{"service":"echo","name":"echo-1","prefetch":5}`
	desc, err := env.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Name != "echo-1" || desc.PrefetchValue() != 5 || desc.Configuration == nil {
		t.Errorf("unexpected descriptor: %+v", desc)
	}

	env.ServiceData = `{"service":"echo"`
	if _, err := env.Descriptor(); !errors.Is(err, domain.ErrInvalidDescriptor) {
		t.Errorf("expected ErrInvalidDescriptor, got %v", err)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadServices_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "production.json", `[
		{"service": "echo", "name": "echo-1", "prefetch": 1},
		{"service": "ticker", "name": "ticker-1", "configuration": {"schedule": "@every 1m", "target": "echo-1"}}
	]`)

	descs, err := LoadServices(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(descs) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descs))
	}
	if descs[0].PrefetchValue() != 1 || descs[0].Configuration == nil {
		t.Errorf("unexpected echo descriptor: %+v", descs[0])
	}
	if descs[1].Configuration["target"] != "echo-1" {
		t.Errorf("unexpected ticker configuration: %v", descs[1].Configuration)
	}
}

func TestLoadServices_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "production.toml", `
[[services]]
service = "echo"
name = "echo-1"
prefetch = 10

[[services]]
service = "ticker"
name = "ticker-1"

[services.configuration]
schedule = "@hourly"
target = "echo-1"
`)

	descs, err := LoadServices(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(descs) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descs))
	}
	if descs[0].PrefetchValue() != 10 {
		t.Errorf("expected prefetch 10, got %d", descs[0].PrefetchValue())
	}
	if descs[1].Configuration["schedule"] != "@hourly" {
		t.Errorf("unexpected configuration: %v", descs[1].Configuration)
	}
}

func TestLoadServices_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"invalid json", "a.json", `[{"service": "echo",`},
		{"not an array", "b.json", `{"service": "echo", "name": "x"}`},
		{"missing name", "c.json", `[{"service": "echo"}]`},
		{"missing service", "d.json", `[{"name": "x"}]`},
		{"duplicate names", "e.json", `[{"service": "echo", "name": "x"}, {"service": "ticker", "name": "x"}]`},
		{"negative prefetch", "f.json", `[{"service": "echo", "name": "x", "prefetch": -1}]`},
		{"invalid toml", "g.toml", `[[services]`},
		{"unknown toml key", "h.toml", "[[services]]\nservice = \"echo\"\nname = \"x\"\nprefech = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			if _, err := LoadServices(path); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadServices_MissingFile(t *testing.T) {
	_, err := LoadServices(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist error, got %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	env := &Environment{AppEnv: "staging", ConfigDir: dir}

	if got := env.ConfigFile(); got != filepath.Join(dir, "staging.json") {
		t.Errorf("expected json default, got %s", got)
	}

	tomlPath := writeFile(t, dir, "staging.toml", "")
	if got := env.ConfigFile(); got != tomlPath {
		t.Errorf("expected toml fallback, got %s", got)
	}

	jsonPath := writeFile(t, dir, "staging.json", "[]")
	if got := env.ConfigFile(); got != jsonPath {
		t.Errorf("expected json preferred, got %s", got)
	}
}

func TestFilterServices(t *testing.T) {
	descs := []domain.ServiceDescriptor{
		{Service: "echo", Name: "a"},
		{Service: "echo", Name: "b"},
		{Service: "echo", Name: "c"},
	}

	all, missing := FilterServices(descs, nil)
	if len(all) != 3 || missing != nil {
		t.Errorf("empty filter should keep all, got %v %v", all, missing)
	}

	filtered, missing := FilterServices(descs, []string{"c", "a", "z"})
	if len(filtered) != 2 || filtered[0].Name != "a" || filtered[1].Name != "c" {
		t.Errorf("expected [a c] in file order, got %+v", filtered)
	}
	if len(missing) != 1 || missing[0] != "z" {
		t.Errorf("expected missing [z], got %v", missing)
	}
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "HIVE_TEST_DOTENV=loaded\n")
	t.Setenv("HIVE_TEST_DOTENV", "")
	os.Unsetenv("HIVE_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("HIVE_TEST_DOTENV"); got != "loaded" {
		t.Errorf("expected loaded, got %q", got)
	}
}
