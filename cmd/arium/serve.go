package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariumhq/arium/internal/metrics"
	httpadapter "github.com/ariumhq/arium/pkg/adapters/http"
	"github.com/ariumhq/arium/pkg/adapters/inmemory"
	"github.com/ariumhq/arium/pkg/adapters/redis"
	"github.com/ariumhq/arium/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve <dir>",
	Short: "Serve the workflows in a directory over HTTP",
	Long: `Compiles every YAML definition in the directory and exposes them on a
JSON API, with session persistence and Prometheus metrics.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")

		workflows, err := loadWorkflowDir(args[0], logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var store ports.ConversationStore
		if redisAddr != "" {
			store = redis.New(redisAddr, "", 0)
			logger.Info("using redis session store", "addr", redisAddr)
		} else {
			store = inmemory.NewStore()
		}

		collector := metrics.NewCollector()
		handler := httpadapter.NewHandler(workflows,
			httpadapter.WithStore(store),
			httpadapter.WithMetricsHandler(collector.Handler()),
			httpadapter.WithLogger(logger),
		)

		srv := &http.Server{Addr: ":" + port, Handler: handler}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting arium server", "addr", srv.Addr, "workflows", len(workflows))
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for session persistence (host:port)")
}
