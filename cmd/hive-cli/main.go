// Hive CLI — инструмент командной строки оператора.
//
// Использование:
//
//	hive-cli [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	workers   Состояние воркеров (status API оркестратора)
//	send      Отправить сообщение в очередь сервиса
//	config    Проверить файл дескрипторов
//	services  Типы сервисов, доступные воркеру
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Hive/internal/broker"
	"github.com/shaiso/Hive/internal/cli"
	"github.com/shaiso/Hive/internal/config"
	"github.com/shaiso/Hive/internal/mq"
	"github.com/shaiso/Hive/internal/services"
	"github.com/shaiso/Hive/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	_ = config.LoadDotEnv(".env")

	// Логи CLI — в stderr, чтобы не смешиваться с выводом команд
	level := slog.LevelWarn
	if os.Getenv("LOG_LEVEL") != "" {
		level = telemetry.LogLevel()
	}
	logger := telemetry.NewLogger(os.Stderr, "text", level)

	rootCmd := &cobra.Command{
		Use:           "hive-cli",
		Short:         "Hive CLI — inspect workers and talk to services",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8090", "Orchestrator status API URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }
	transportFn := func() (broker.Transport, error) {
		env, err := config.LoadEnvironment()
		if err != nil {
			return nil, err
		}
		return mq.NewTransport(env.RabbitMQ, logger), nil
	}

	rootCmd.AddCommand(
		cli.NewWorkersCmd(clientFn, outputFn),
		cli.NewSendCmd(transportFn, outputFn, logger),
		cli.NewConfigCmd(services.DefaultRegistry, outputFn),
		cli.NewServicesCmd(services.DefaultRegistry, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
