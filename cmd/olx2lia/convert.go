package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olxtools/olx2lia/internal/pipeline"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		outputDir string
		workers   int
		preview   bool
	)

	cmd := &cobra.Command{
		Use:   "convert <course-dir-or-archive>...",
		Short: "Convert one or more course exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output") {
				a.cfg.OutputDir = outputDir
			}
			if cmd.Flags().Changed("workers") {
				a.cfg.Workers = workers
			}
			if cmd.Flags().Changed("preview") {
				a.cfg.Preview = preview
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch := pipeline.NewOrchestrator(a.cfg, nil, a.log)
			orch.Start(ctx)
			for _, source := range args {
				if _, err := orch.Submit(source); err != nil {
					a.log.Error("submit failed", "source", source, "error", err)
				}
			}
			orch.Drain()

			failed := 0
			for _, job := range orch.Jobs() {
				if job.Status != pipeline.StatusCompleted {
					failed++
					a.log.Error("course failed", "source", job.Source, "errors", job.Errors)
				}
			}
			a.log.Info("batch finished", "courses", len(orch.Jobs()), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d courses failed", failed, len(orch.Jobs()))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "output", "output directory")
	cmd.Flags().IntVar(&workers, "workers", 4, "number of courses converted in parallel")
	cmd.Flags().BoolVar(&preview, "preview", false, "also render an HTML preview per course")
	return cmd
}
