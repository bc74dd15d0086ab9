package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/orders"
	"github.com/ziadkadry99/shopassist/internal/server"
	"github.com/ziadkadry99/shopassist/internal/support"
	"github.com/ziadkadry99/shopassist/internal/widget"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the shopping assistant HTTP and WebSocket server",
	Long:  `Starts the chat widget, its REST and WebSocket endpoints, the catalog, order and support APIs, health checks and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, a.db, a.metrics, log)

		registerAllRoutes(srv, a)

		go func() {
			<-ctx.Done()
			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("server shutdown")
			}
		}()

		fmt.Fprintf(os.Stderr, "shopassist server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", a.db.Path())
		fmt.Fprintf(os.Stderr, "  Widget:   http://localhost:%d/\n", cfg.Server.Port)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires the feature routes onto the server's router.
func registerAllRoutes(srv *server.Server, a *app) {
	r := srv.Router()

	catalog.RegisterRoutes(r, a.products, a.catalog)
	orders.RegisterRoutes(r, a.orders)
	support.RegisterRoutes(r, a.tickets)
	notifications.RegisterRoutes(r, a.toasts)

	w := widget.New(a.manager, a.toasts, a.log.WithField("component", "widget"))
	w.RegisterRoutes(r)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
