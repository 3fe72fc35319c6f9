package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Hive/internal/config"
	"github.com/shaiso/Hive/internal/service"
)

// NewConfigCmd создаёт группу команд для файла дескрипторов.
func NewConfigCmd(registryFn func() *service.Registry, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect service configuration",
	}

	cmd.AddCommand(newConfigCheckCmd(registryFn, outputFn))

	return cmd
}

func newConfigCheckCmd(registryFn func() *service.Registry, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the service descriptor file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			if file == "" {
				env, err := config.LoadEnvironment()
				if err != nil {
					return err
				}
				file = env.ConfigFile()
			}

			descs, err := config.LoadServices(file)
			if err != nil {
				return err
			}

			registry := registryFn()
			var unknown []string

			rows := make([][]string, len(descs))
			for i, d := range descs {
				prefetch := "unlimited"
				if d.Prefetch != nil {
					prefetch = strconv.FormatUint(uint64(*d.Prefetch), 10)
				}

				keys := make([]string, 0, len(d.Configuration))
				for k := range d.Configuration {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				rows[i] = []string{d.Name, d.Service, prefetch, strings.Join(keys, ",")}

				if !registry.Has(d.Service) {
					unknown = append(unknown, fmt.Sprintf("%s (%s)", d.Name, d.Service))
				}
			}

			out.Print([]string{"NAME", "SERVICE", "PREFETCH", "CONFIGURATION"}, rows, descs)

			if len(unknown) > 0 {
				return fmt.Errorf("%w: unknown service types: %s",
					config.ErrInvalidConfig, strings.Join(unknown, ", "))
			}

			out.Success(fmt.Sprintf("%s: %d services OK", file, len(descs)))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Descriptor file (default: <HIVE_CONFIG_DIR>/<APP_ENV>.json)")

	return cmd
}

// NewServicesCmd создаёт команду со списком типов сервисов в бинарнике.
func NewServicesCmd(registryFn func() *service.Registry, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List service types linked into the worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			types := registryFn().Types()
			rows := make([][]string, len(types))
			for i, t := range types {
				rows[i] = []string{t}
			}

			out.Print([]string{"SERVICE"}, rows, types)
			return nil
		},
	}
}
