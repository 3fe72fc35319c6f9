// Package service определяет контракт сервиса, который хостит воркер,
// и реестр реализаций по типу.
//
// Реализации не загружаются динамически: бинарник воркера регистрирует
// фабрики при старте, а воркер обращается к ним только через Registry.
//
//	reg := service.NewRegistry()
//	reg.Register("echo", echo.New)
//	svc, err := reg.Create(b, descriptor, logger)
package service
