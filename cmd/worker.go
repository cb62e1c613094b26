package main

import (
	"hotel-reservation-engine/cmd/bootstrap"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver notifications and run scheduled stay completion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), fx.New(bootstrap.WorkerProcessModule))
		},
	}
}
