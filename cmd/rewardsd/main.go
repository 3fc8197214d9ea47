package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"swaprewards/config"
	"swaprewards/events"
	"swaprewards/native/rewards"
	"swaprewards/observability"
	"swaprewards/observability/logging"
	"swaprewards/rpc"
	"swaprewards/state"
	"swaprewards/storage"
)

// slogEmitter mirrors every module event into the structured log.
type slogEmitter struct {
	logger *slog.Logger
}

func (e slogEmitter) Emit(evt events.Event) {
	e.logger.Info("rewards event", "type", evt.EventType(), "event", fmt.Sprintf("%+v", evt))
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	env := strings.TrimSpace(os.Getenv("REWARDS_ENV"))
	var logOpts []logging.Option
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logging.WithRotatingFile(logging.FileRotation{
			Path:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
		}))
	}
	logger := logging.Setup("rewardsd", env, logOpts...)

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "rewards"))
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	manager := state.NewManager(db)
	if err := seedPolicy(manager, cfg); err != nil {
		logger.Error("failed to seed policy", "err", err)
		os.Exit(1)
	}

	emitter := observability.NewMetricsEmitter(slogEmitter{logger: logger})

	engine := rewards.NewEngine()
	engine.SetEmitter(emitter)

	store := rewards.NewParamStore(manager, cfg.Owner())
	store.SetEmitter(emitter)

	secret := cfg.AuthSecret()
	if secret == "" {
		logger.Warn("admin RPC authentication disabled; set the auth secret for production")
	}
	auth := rpc.NewAuthenticator(rpc.AuthConfig{
		Enabled:    secret != "",
		HMACSecret: secret,
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
	})

	server := rpc.NewServer(engine, store, manager, auth, logger)
	if cfg.RPCRequestsPerMinute > 0 {
		server.SetRateLimiter(rpc.NewRateLimiter(rpc.RateLimit{
			RequestsPerMinute: cfg.RPCRequestsPerMinute,
			Burst:             cfg.RPCBurst,
		}))
	}

	if cfg.MetricsAddress != "" {
		go func() {
			logger.Info("starting metrics listener", "addr", cfg.MetricsAddress)
			if err := http.ListenAndServe(cfg.MetricsAddress, promhttp.Handler()); err != nil {
				logger.Error("metrics listener failed", "err", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.RPCAddress)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		logger.Error("rpc server failed", "err", err)
		db.Close()
		os.Exit(1)
	}
}

// seedPolicy writes the genesis policy on first start. An already-persisted
// policy always wins over the config file.
func seedPolicy(manager *state.Manager, cfg *config.Config) error {
	_, err := manager.RewardsPolicy()
	if err == nil {
		return nil
	}
	if !errors.Is(err, rewards.ErrPolicyNotFound) {
		return err
	}
	return manager.SetRewardsPolicy(&rewards.Policy{
		MinQualifyingAmount: cfg.GenesisMinQualifyingAmount(),
		DailyCap:            cfg.GenesisDailyCap(),
	})
}
