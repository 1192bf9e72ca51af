package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alwitt/keyvault/api"
	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var defineTables bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the vault REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			vaultStore, err := openVaultStore(ctx, cfg, defineTables)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			server := &http.Server{
				Addr:              cfg.Server.Listen,
				Handler:           api.NewRouter(vaultStore).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.WithField("listen", cfg.Server.Listen).Info("Starting vault API")
				serveErr <- server.ListenAndServe()
			}()

			select {
			case err := <-serveErr:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("Stopping vault API")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&defineTables, "define-tables", false, "create the vault tables before starting")

	return cmd
}
