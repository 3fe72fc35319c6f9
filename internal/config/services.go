package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/shaiso/Hive/internal/domain"
)

// tomlFile — структура TOML файла дескрипторов.
//
//	[[services]]
//	service = "echo"
//	name = "echo-1"
//	prefetch = 10
//	[services.configuration]
//	greeting = "hi"
type tomlFile struct {
	Services []domain.ServiceDescriptor `toml:"services"`
}

// LoadServices читает и проверяет файл дескрипторов.
// Формат выбирается по расширению: .toml — TOML, иначе JSON.
func LoadServices(path string) ([]domain.ServiceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var descs []domain.ServiceDescriptor
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		descs, err = ParseTOML(data)
	} else {
		descs, err = ParseJSON(data)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(descs); err != nil {
		return nil, err
	}

	return descs, nil
}

// ParseJSON разбирает JSON массив дескрипторов.
func ParseJSON(data []byte) ([]domain.ServiceDescriptor, error) {
	var descs []domain.ServiceDescriptor
	if err := json.Unmarshal(data, &descs); err != nil {
		return nil, fmt.Errorf("parse config: %w: %v", ErrInvalidConfig, err)
	}
	return descs, nil
}

// ParseTOML разбирает TOML файл с таблицами [[services]].
func ParseTOML(data []byte) ([]domain.ServiceDescriptor, error) {
	var file tomlFile
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w: %v", ErrInvalidConfig, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("parse config: %w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	return file.Services, nil
}

// Validate проверяет дескрипторы и уникальность имён экземпляров.
func Validate(descs []domain.ServiceDescriptor) error {
	seen := make(map[string]int, len(descs))

	for i := range descs {
		if err := descs[i].Validate(); err != nil {
			return fmt.Errorf("validate config: %w: services[%d]: %v", ErrInvalidConfig, i, err)
		}

		name := descs[i].Name
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("validate config: %w: duplicate name %q in services[%d] and services[%d]",
				ErrInvalidConfig, name, prev, i)
		}
		seen[name] = i
	}

	return nil
}

// FilterServices оставляет дескрипторы с именами из names, сохраняя порядок
// файла. Пустой names — без фильтра. Второе значение — имена, которых нет в файле.
func FilterServices(descs []domain.ServiceDescriptor, names []string) ([]domain.ServiceDescriptor, []string) {
	if len(names) == 0 {
		return descs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	filtered := make([]domain.ServiceDescriptor, 0, len(names))
	for _, desc := range descs {
		if wanted[desc.Name] {
			filtered = append(filtered, desc)
			delete(wanted, desc.Name)
		}
	}

	var missing []string
	for _, name := range names {
		if wanted[name] {
			missing = append(missing, name)
			delete(wanted, name)
		}
	}

	return filtered, missing
}
