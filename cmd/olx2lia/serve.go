package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olxtools/olx2lia/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		outputDir string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve converted courses over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output") {
				a.cfg.OutputDir = outputDir
			}
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			srv := api.NewServer(a.cfg, a.log)
			httpServer := &http.Server{
				Addr:         a.cfg.Addr,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				a.log.Info("shutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			a.log.Info("serving converted courses", "addr", a.cfg.Addr, "output", a.cfg.OutputDir)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "output", "output directory to serve")
	cmd.Flags().StringVar(&addr, "addr", ":8090", "listen address")
	return cmd
}
