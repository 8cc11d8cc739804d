package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-evalkit/infrastructure/metrics"
	"github.com/ahrav/go-evalkit/internal/application"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the available metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := application.NewMetricRegistry()
			if err := metrics.RegisterBuiltins(registry, metrics.NewJudgeBudget(0)); err != nil {
				return err
			}
			for _, name := range registry.List() {
				kind := "deterministic"
				if judgeMetrics[name] {
					kind = "llm-judge"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", name, kind)
			}
			return nil
		},
	}
}
