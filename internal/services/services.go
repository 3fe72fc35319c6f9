// Package services собирает встроенные реализации сервисов.
package services

import (
	"github.com/shaiso/Hive/internal/service"
	"github.com/shaiso/Hive/internal/services/echo"
	"github.com/shaiso/Hive/internal/services/ticker"
)

// Register добавляет встроенные сервисы в реестр.
func Register(r *service.Registry) {
	r.Register(echo.ServiceType, echo.New)
	r.Register(ticker.ServiceType, ticker.New)
}

// DefaultRegistry создаёт реестр со всеми встроенными сервисами.
func DefaultRegistry() *service.Registry {
	r := service.NewRegistry()
	Register(r)
	return r
}
