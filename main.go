package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/uniceg/eunice-dev/internal/config"
	"github.com/uniceg/eunice-dev/internal/content"
	"github.com/uniceg/eunice-dev/internal/logger"
	"github.com/uniceg/eunice-dev/internal/pages"
	"github.com/uniceg/eunice-dev/internal/viewstate"
	"github.com/uniceg/eunice-dev/internal/visits"
)

var errSimulatedOutage = errors.New("simulated mail server outage")

type rootFlags struct {
	port     string
	dbPath   string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Serves the portfolio site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.port, "port", "", "HTTP port (overrides PORT)")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	})
	cmd.AddCommand(newStatsCmd(flags))
	cmd.AddCommand(newCleanupCmd(flags))

	return cmd
}

func loadConfig(flags *rootFlags) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if flags.port != "" {
		cfg.Port = flags.port
	}
	if flags.dbPath != "" {
		cfg.DatabasePath = flags.dbPath
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, HumanReadable: cfg.LogHuman})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, flags *rootFlags) error {
	cfg, log, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	site, err := content.Default()
	if err != nil {
		return err
	}

	var store *visits.Store
	if cfg.TrackingEnabled {
		store, err = visits.Open(ctx, cfg.DatabasePath, cfg.TrackingSalt)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Info("privacy: visitor tracking enabled with hashed IP addresses")
	}

	sender := viewstate.SimulatedSender{Delay: cfg.SubmitDelay}
	if cfg.SimulateSendFailure {
		sender.Err = errSimulatedOutage
		log.Warn("contact submissions will fail: SIMULATE_SEND_FAILURE is set")
	}

	registry := pages.NewRegistry(pages.Options{
		Content:          site,
		Sender:           sender,
		GreetingInterval: cfg.GreetingInterval,
		MaxPages:         cfg.MaxPages,
		Logger:           log,
	})
	defer registry.Close()

	jobs, err := startJobs(registry, cfg.PageIdleTTL, store, cfg.VisitorRetention, log)
	if err != nil {
		return err
	}
	defer jobs.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(&server{content: site, registry: registry, visits: store, log: log}, "templates/*"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]any{"addr": srv.Addr}).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print visitor statistics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			store, err := visits.Open(cmd.Context(), cfg.DatabasePath, cfg.TrackingSalt)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context(), recent)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
	cmd.Flags().IntVar(&recent, "recent", 50, "number of recent visits to include")
	return cmd
}

func newCleanupCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete visitor records older than VISITOR_RETENTION",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(flags)
			if err != nil {
				return err
			}
			store, err := visits.Open(cmd.Context(), cfg.DatabasePath, cfg.TrackingSalt)
			if err != nil {
				return err
			}
			defer store.Close()

			pruneVisits(store, cfg.VisitorRetention, log)
			return nil
		},
	}
}
