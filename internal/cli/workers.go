package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

// NewWorkersCmd создаёт группу команд для просмотра воркеров.
func NewWorkersCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "Inspect workers started by the orchestrator",
	}

	cmd.AddCommand(
		newWorkersListCmd(clientFn, outputFn),
		newWorkersShowCmd(clientFn, outputFn),
		newWorkersSummaryCmd(clientFn, outputFn),
	)

	return cmd
}

var workerHeaders = []string{"NAME", "SERVICE", "STATE", "PID", "UPDATED", "ERROR"}

func workerRow(w WorkerResponse) []string {
	pid := "-"
	if w.PID != 0 {
		pid = strconv.Itoa(w.PID)
	}
	return []string{w.Name, w.Service, w.State, pid, w.UpdatedAt, w.Error}
}

func newWorkersListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workers, err := client.ListWorkers(state)
			if err != nil {
				return err
			}

			rows := make([][]string, len(workers))
			for i, w := range workers {
				rows[i] = workerRow(w)
			}

			out.Print(workerHeaders, rows, workers)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter by state (SPAWNED, READY, INITIALIZED, RUNNING, FAILED)")

	return cmd
}

func newWorkersShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show worker details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			worker, err := client.GetWorker(args[0])
			if err != nil {
				return err
			}

			out.Print(workerHeaders, [][]string{workerRow(*worker)}, worker)
			return nil
		},
	}
}

func newWorkersSummaryCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count workers by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			summary, err := client.Summary()
			if err != nil {
				return err
			}

			states := make([]string, 0, len(summary.States))
			for state := range summary.States {
				states = append(states, state)
			}
			sort.Strings(states)

			rows := make([][]string, 0, len(states)+1)
			for _, state := range states {
				rows = append(rows, []string{state, strconv.Itoa(summary.States[state])})
			}
			rows = append(rows, []string{"TOTAL", fmt.Sprint(summary.Total)})

			out.Print([]string{"STATE", "COUNT"}, rows, summary)
			return nil
		},
	}
}
