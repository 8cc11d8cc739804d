package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-evalkit/infrastructure/reporters"
	"github.com/ahrav/go-evalkit/internal/domain"
)

func newReportCmd() *cobra.Command {
	var (
		format  string
		output  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "report <results.json>",
		Short: "Re-render a saved JSON result file",
		Long: `Report reads a result file produced by "run --report json", verifies
its canonical digest, and renders it in another format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var envelope struct {
				Result json.RawMessage `json:"result"`
				Digest string          `json:"digest"`
			}
			if err := json.Unmarshal(data, &envelope); err != nil {
				return fmt.Errorf("parse result file: %w", err)
			}
			if len(envelope.Result) == 0 {
				return fmt.Errorf("%s is not a saved result file", args[0])
			}

			if envelope.Digest != "" {
				digest, err := reporters.CanonicalDigest(envelope.Result)
				if err != nil {
					return err
				}
				if digest != envelope.Digest {
					slog.Warn("result digest mismatch, file may have been edited",
						"expected", envelope.Digest, "actual", digest)
				}
			}

			reporter, err := buildReporter(runFlags{format: format, verbose: verbose})
			if err != nil {
				return err
			}
			out, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			// A comparison result carries per_model; a suite result does not.
			var probe struct {
				PerModel map[string]json.RawMessage `json:"per_model"`
			}
			if err := json.Unmarshal(envelope.Result, &probe); err == nil && probe.PerModel != nil {
				var comparison domain.ComparisonResult
				if err := json.Unmarshal(envelope.Result, &comparison); err != nil {
					return fmt.Errorf("parse comparison result: %w", err)
				}
				return reporter.ReportComparison(out, comparison)
			}

			var result domain.SuiteResult
			if err := json.Unmarshal(envelope.Result, &result); err != nil {
				return fmt.Errorf("parse suite result: %w", err)
			}
			return reporter.Report(out, result)
		},
	}

	cmd.Flags().StringVar(&format, "format", "console", "output format: console, json, html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include per-case rows in the console report")

	return cmd
}
