// Package worker — процесс, хостящий один экземпляр сервиса.
//
// # Обзор
//
// Воркер запускается оркестратором с дескриптором сервиса в
// SERVICE_DATA и управляющим каналом на fd 3/4. Он:
//
//   - Создаёт Broker с очередью по имени экземпляра
//   - Создаёт сервис через service.Registry по типу из дескриптора
//   - Сообщает оркестратору ready и выполняет его команды
//
// # Команды
//
//	init → service.Init → initialized
//	run  → service.Run  → running
//
// Ошибка Init или Run логируется, подтверждение не отправляется:
// оркестратор так и не увидит следующий шаг. Прочие строки
// логируются и игнорируются.
//
// # Остановка
//
// По SIGINT/SIGTERM (отмена ctx в Serve) вызывается Stop: сервис
// закрывает брокер, процесс завершается с кодом 0.
//
//	w, err := worker.New(worker.Config{
//	    Descriptor: desc,
//	    Registry:   services.DefaultRegistry(),
//	    Transport:  mq.NewTransport(env.RabbitMQ, logger),
//	    Channel:    ch,
//	    Logger:     logger,
//	})
//	if err != nil {
//	    os.Exit(1)
//	}
//	_ = w.Serve(ctx)
//	_ = w.Stop(context.Background())
package worker
