package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jrsteele09/clinic-console/clinicapi"
	"github.com/jrsteele09/clinic-console/dispatcher"
	"github.com/jrsteele09/clinic-console/internal/config"
	"github.com/jrsteele09/clinic-console/internal/logging"
	"github.com/jrsteele09/clinic-console/internal/metrics"
	"github.com/jrsteele09/clinic-console/sessions"
	"github.com/jrsteele09/clinic-console/sessions/filerepo"
	"github.com/jrsteele09/clinic-console/sessions/redisrepo"
	fakesessionrepo "github.com/jrsteele09/clinic-console/sessions/repofakes"
	"github.com/jrsteele09/clinic-console/sessions/sqliterepo"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfg config.Config

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinic-console",
		Short:         "Clinic management console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			cfg = config.New()
			logging.Setup(cfg.GetLogLevel(), cfg.GetEnv())
		},
	}

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(patientsCmd())
	rootCmd.AddCommand(appointmentsCmd())
	rootCmd.AddCommand(prescriptionsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(mockServerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// console bundles the client with whatever the session backend needs released.
type console struct {
	*clinicapi.Client
	close func()
}

func openConsole(ctx context.Context) (*console, error) {
	repo, closeRepo, err := openSessionRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := sessions.Open(ctx, repo)
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("open session: %w", err)
	}

	d := dispatcher.New(cfg.GetBaseURL(), store,
		dispatcher.WithHTTPClient(&http.Client{Timeout: cfg.GetRequestTimeout()}),
		dispatcher.WithMetrics(metrics.NewDispatcherMetrics(prometheus.NewRegistry())),
	)
	d.OnRedirect(func(r dispatcher.Redirect) {
		log.Debug().Str("outcome", string(r.Outcome)).Str("location", r.Location).Msg("redirect")
	})
	return &console{Client: clinicapi.New(store, d, nil), close: closeRepo}, nil
}

func openSessionRepo(ctx context.Context, c config.SessionConfig) (sessions.Repo, func(), error) {
	noop := func() {}
	switch c.GetSessionBackend() {
	case config.SessionBackendMemory:
		return fakesessionrepo.NewFakeSessionRepo(), noop, nil
	case config.SessionBackendRedis:
		client, err := redisrepo.Dial(ctx, c.GetRedisURL())
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.New(client, c.GetSessionKeyPrefix(), 0), func() { _ = client.Close() }, nil
	case config.SessionBackendSQLite:
		repo, err := sqliterepo.New(c.GetSessionSQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		repo, err := filerepo.New(c.GetSessionPath())
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil
	}
}

// withConsole opens the console for the duration of fn.
func withConsole(cmd *cobra.Command, fn func(ctx context.Context, c *console) error) error {
	ctx := cmd.Context()
	c, err := openConsole(ctx)
	if err != nil {
		return err
	}
	defer c.close()
	return fn(ctx, c)
}
