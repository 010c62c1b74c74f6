package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/platinummonkey/diplomacy/pkg/api"
	"github.com/platinummonkey/diplomacy/pkg/consul"
	"github.com/platinummonkey/diplomacy/pkg/observability"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Version is reported by the health endpoints
var Version = "dev"

func newRunCommand() *Command {
	return &Command{
		Name:        "run",
		Description: "Start the plugin host and serve its HTTP endpoints",
		Run:         runRun,
	}
}

func runRun(args []string) error {
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	var hf hostFlags
	hf.register(flags)

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := hf.load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg, os.Stderr)
	logger.Infof("Starting diplomacy %s", Version)

	ctx := context.Background()
	providers, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	var (
		metrics        *observability.Metrics
		metricsHandler http.Handler
	)
	if cfg.Observability.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = observability.NewMetrics(reg)
		metricsHandler = observability.MetricsHandler(reg)
	}

	host, err := newHost(cfg, logger, metrics)
	if err != nil {
		return err
	}

	shutdownScheduler := func(context.Context) error { return nil }

	startCtx, cancel := context.WithTimeout(ctx, discoveryTimeout(cfg.Plugins.DiscoveryTimeout))
	res := host.Start(startCtx)
	cancel()
	if err := res.Err("consul.Start"); err != nil {
		return err
	}

	if spec := cfg.Plugins.RediscoverSchedule; spec != "" {
		scheduler, err := consul.ScheduleRediscovery(host, spec, discoveryTimeout(cfg.Plugins.DiscoveryTimeout))
		if err != nil {
			host.Stop(ctx)
			return err
		}
		shutdownScheduler = func(ctx context.Context) error {
			select {
			case <-scheduler.Stop().Done():
				return nil
			case <-ctx.Done():
				return fmt.Errorf("rediscovery still running: %w", ctx.Err())
			}
		}
	}

	health := observability.NewHealthChecker(Version, host.Dispatch().Registry(), host.FrontDesk().Registry())
	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      api.Instrument(api.NewRouter(host, health, metricsHandler, logger)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, server, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc("otel", func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})
	shutdown.RegisterShutdownFunc("consul", func(ctx context.Context) error {
		if res := host.Stop(ctx); !res.IsSuccess() && !res.Is(result.NotInitialized) {
			return res.Err("consul.Stop")
		}
		return nil
	})
	shutdown.RegisterShutdownFunc("rediscovery", shutdownScheduler)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return errors.Join(fmt.Errorf("failed to listen on %s: %w", server.Addr, err), shutdown.Shutdown())
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server listening on %s", ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	waitCtx, stop := context.WithCancel(ctx)
	defer stop()

	var serveErr error
	served := make(chan struct{})
	go func() {
		defer close(served)
		if err, ok := <-serverErr; ok {
			logger.WithError(err).Error("HTTP server failed")
			serveErr = fmt.Errorf("HTTP server failed: %w", err)
			stop()
		}
	}()

	err = shutdown.WaitForShutdown(waitCtx)
	<-served
	return errors.Join(serveErr, err)
}
