package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depwatch/internal/metrics"
	"github.com/matzehuels/depwatch/internal/server"
	"github.com/matzehuels/depwatch/pkg/observability"
	"github.com/matzehuels/depwatch/pkg/subscription"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the subscription HTTP API",
		Long: `Run the subscription HTTP API.

Routes:
  POST   /subscriptions
  GET    /subscriptions/{id}
  DELETE /subscriptions/{id}
  GET    /subscriptions/{id}/outdated-dependencies
  GET    /healthz
  GET    /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			respCache, err := newCache(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			defer respCache.Close()

			storeOpts := subscription.Options{
				Backend:       cfg.Store.Backend,
				Dir:           cfg.Store.Dir,
				RedisURL:      cfg.Store.RedisURL,
				MongoURI:      cfg.Store.MongoURI,
				MongoDatabase: cfg.Store.MongoDatabase,
			}
			if storeOpts.Backend == subscription.BackendFile && storeOpts.Dir == "" {
				if storeOpts.Dir, err = dataDir(); err != nil {
					return err
				}
			}
			store, err := subscription.Open(ctx, storeOpts)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := subscription.NewService(store, c.newResolver(cfg, respCache), logger)
			opts := server.Options{
				Addr:            cfg.Server.Addr,
				Service:         svc,
				Logger:          logger,
				ResolveTimeout:  cfg.Server.ResolveTimeout.Duration,
				ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
			}

			if cfg.Metrics.Enabled {
				m := metrics.New()
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					m,
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				m.Install()
				defer observability.Reset()
				opts.Metrics = m
				opts.MetricsHandler = metrics.Handler(reg)
			}

			logger.Info("starting depwatch",
				"addr", cfg.Server.Addr,
				"store", cfg.Store.Backend,
				"cache", cfg.Cache.Backend,
				"metrics", cfg.Metrics.Enabled,
			)
			return server.New(opts).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
