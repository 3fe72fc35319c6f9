package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/mq"
)

// Переменные окружения.
const (
	EnvAppEnv      = "APP_ENV"
	EnvNodeEnv     = "NODE_ENV"
	EnvServices    = "SERVICES"
	EnvServiceData = "SERVICE_DATA"
	EnvConfigDir   = "HIVE_CONFIG_DIR"

	EnvRabbitURL      = "RABBITMQ_URL"
	EnvRabbitHostname = "RABBITMQ_HOSTNAME"
	EnvRabbitPort     = "RABBITMQ_PORT"
	EnvRabbitUsername = "RABBITMQ_USERNAME"
	EnvRabbitPassword = "RABBITMQ_PASSWORD"
	EnvRabbitVHost    = "RABBITMQ_VHOST"
)

const (
	defaultAppEnv    = "production"
	defaultConfigDir = "config"
)

// Environment — разобранное окружение процесса.
type Environment struct {
	// AppEnv — имя окружения, выбирает файл конфигурации.
	AppEnv string

	// Services — фильтр экземпляров. Пустой — запускать все.
	Services []string

	// ServiceData — сырой дескриптор из SERVICE_DATA.
	ServiceData string

	// ConfigDir — каталог файлов конфигурации.
	ConfigDir string

	// RabbitMQ — подключение к брокеру.
	RabbitMQ mq.Config
}

// LoadEnvironment читает окружение процесса.
func LoadEnvironment() (*Environment, error) {
	return LoadEnvironmentFrom(os.Getenv)
}

// LoadEnvironmentFrom читает окружение через getenv.
func LoadEnvironmentFrom(getenv func(string) string) (*Environment, error) {
	env := &Environment{
		AppEnv:      getenv(EnvAppEnv),
		Services:    strings.Fields(getenv(EnvServices)),
		ServiceData: getenv(EnvServiceData),
		ConfigDir:   getenv(EnvConfigDir),
	}

	if env.AppEnv == "" {
		env.AppEnv = getenv(EnvNodeEnv)
	}
	if env.AppEnv == "" {
		env.AppEnv = defaultAppEnv
	}
	if env.ConfigDir == "" {
		env.ConfigDir = defaultConfigDir
	}

	rabbit, err := loadRabbitMQ(getenv)
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	env.RabbitMQ = rabbit

	return env, nil
}

func loadRabbitMQ(getenv func(string) string) (mq.Config, error) {
	cfg := mq.Config{
		URL:         getenv(EnvRabbitURL),
		Hostname:    getenv(EnvRabbitHostname),
		Username:    getenv(EnvRabbitUsername),
		Password:    getenv(EnvRabbitPassword),
		VirtualHost: getenv(EnvRabbitVHost),
	}

	if v := getenv(EnvRabbitPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return mq.Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidEnvironment, EnvRabbitPort, err)
		}
		cfg.Port = port
	}

	// Ничего не задано — локальный брокер для разработки
	if cfg.URL == "" && cfg.Hostname == "" {
		cfg.URL = mq.DefaultURL()
	}

	if err := cfg.Validate(); err != nil {
		return mq.Config{}, fmt.Errorf("%w: %v", ErrInvalidEnvironment, err)
	}

	return cfg, nil
}

// Descriptor разбирает SERVICE_DATA.
func (e *Environment) Descriptor() (*domain.ServiceDescriptor, error) {
	if e.ServiceData == "" {
		return nil, ErrNoServiceData
	}
	return domain.ParseDescriptor([]byte(e.ServiceData))
}

// ConfigFile возвращает путь к файлу дескрипторов для AppEnv.
//
// Предпочитается <AppEnv>.json; если его нет, а <AppEnv>.toml есть —
// используется TOML.
func (e *Environment) ConfigFile() string {
	jsonPath := filepath.Join(e.ConfigDir, e.AppEnv+".json")
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath
	}

	tomlPath := filepath.Join(e.ConfigDir, e.AppEnv+".toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}

	return jsonPath
}

// LoadDotEnv загружает .env файлы, если они есть.
// Уже заданные переменные не перезаписываются.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}
