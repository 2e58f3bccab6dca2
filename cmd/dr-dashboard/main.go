package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirychukyurii/dr-dashboard/internal/api"
	"github.com/kirychukyurii/dr-dashboard/internal/autorefresh"
	"github.com/kirychukyurii/dr-dashboard/internal/cache"
	"github.com/kirychukyurii/dr-dashboard/internal/config"
	"github.com/kirychukyurii/dr-dashboard/internal/console"
	"github.com/kirychukyurii/dr-dashboard/internal/logger"
	"github.com/kirychukyurii/dr-dashboard/internal/metrics"
	"github.com/kirychukyurii/dr-dashboard/internal/model"
	"github.com/kirychukyurii/dr-dashboard/internal/repository"
	"github.com/kirychukyurii/dr-dashboard/internal/service"
	"github.com/kirychukyurii/dr-dashboard/internal/view"
	"github.com/kirychukyurii/dr-dashboard/pkg/httpserver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "dr-dashboard",
		Short:        "Primary/DR site status dashboard with operator-triggered failover",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to configuration file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newStatusCmd(&configPath))
	root.AddCommand(newFailoverCmd(&configPath))

	return root
}

// app bundles what every command needs
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	backend repository.BackendRepository
	journal repository.JournalRepository
	closers []io.Closer
}

func newApp(configPath string, logOut io.Writer) (*app, error) {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	log, logCloser := logger.NewFromConfig(cfg.Log, logOut)
	a := &app{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	// Create backend repository
	a.backend, err = repository.NewBackendRepository(cfg.Backend, log)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	log.Info("configuration loaded",
		"api_url", a.backend.BaseURL(),
		"journal_enabled", cfg.Journal.Enabled(),
	)

	// Create failover journal
	a.journal, err = repository.NewJournalRepository(cfg.Journal, log)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create failover journal: %w", err)
	}
	a.closers = append(a.closers, a.journal)

	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, os.Stdout)
			if err != nil {
				return err
			}
			defer a.close()

			return serve(a)
		},
	}
}

func serve(a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	// Operator notices live in a TTL cache until the next page render
	notices := api.NewNoticeBoard(cache.New(a.cfg.Cache.TTL), a.cfg.Cache.TTL)

	svc := service.NewDashboardService(a.backend, a.journal, notices, a.log)

	// Initial status load, the page shows the loading indicator meanwhile
	startupDone := make(chan struct{})
	go func() {
		defer close(startupDone)
		if err := svc.PerformStartup(ctx); err != nil {
			a.log.Warn("initial status load not performed",
				"error", err.Error(),
			)
		}
	}()

	refresher := autorefresh.NewRefresher(&a.cfg.AutoRefresh, svc, a.log)
	refresher.Start(ctx)

	// Create HTTP handler
	handler, err := api.NewHandler(svc, notices, a.cfg.Server.BasePath, a.log)
	if err != nil {
		return fmt.Errorf("failed to create http handler: %w", err)
	}

	srv := httpserver.New(
		a.cfg.Server.Addr,
		handler.Router(),
		a.cfg.Server.ReadTimeout,
		a.cfg.Server.WriteTimeout,
		a.log,
	)

	a.log.Info("starting dr-dashboard service")

	err = srv.Run(ctx)
	if err != nil {
		a.log.Error("server error",
			"error", err.Error(),
		)
	}

	// Graceful shutdown
	stop()
	a.log.Info("shutting down auto refresh")
	refresher.Stop()
	<-startupDone

	a.log.Info("shutdown complete")
	return err
}

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load the status once and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer a.close()

			prompter := console.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), false)
			svc := service.NewDashboardService(a.backend, a.journal, prompter, a.log)

			if err := svc.PerformStartup(cmd.Context()); err != nil {
				return err
			}

			state := svc.Snapshot()
			fmt.Fprint(cmd.OutOrStdout(), view.Text(view.Render(state)))

			if state.Phase == model.PhaseFailed {
				return errors.New("system status unavailable")
			}
			return nil
		},
	}
}

func newFailoverCmd(configPath *string) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "failover",
		Short: "Ask for confirmation and initiate a failover",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer a.close()

			prompter := console.NewStdPrompter()
			svc := service.NewDashboardService(a.backend, a.journal, prompter, a.log)

			var confirmer service.Confirmer = prompter
			if assumeYes {
				confirmer = console.AlwaysConfirm{}
			}

			outcome, err := svc.RequestFailover(cmd.Context(), confirmer, service.RequestedByCLI)
			if err != nil {
				return err
			}
			if !outcome.Confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Failover cancelled.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), view.Text(view.Render(svc.Snapshot())))

			if !outcome.Success {
				return errors.New("failover was not initiated")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
