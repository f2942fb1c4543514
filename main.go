package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gabapcia/ledgertest/internal/blockchain"
	"github.com/gabapcia/ledgertest/internal/emulator"
	"github.com/gabapcia/ledgertest/internal/eventstream"
	"github.com/gabapcia/ledgertest/internal/handlers/cli"
	emulatorrpc "github.com/gabapcia/ledgertest/internal/infra/emulator/jsonrpc"
	"github.com/gabapcia/ledgertest/internal/infra/storage/redis"
	"github.com/gabapcia/ledgertest/internal/pkg/logger"
	"github.com/gabapcia/ledgertest/internal/pkg/resilience/retry"
	"github.com/gabapcia/ledgertest/internal/pkg/telemetry"
	"github.com/gabapcia/ledgertest/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/ledgertest/internal/pkg/validation"

	"github.com/kelseyhightower/envconfig"
)

// serviceName identifies this service in telemetry backends.
const serviceName = "ledgertest"

// config holds the environment-driven application settings.
//
// When EmulatorEndpoint is set, all chain operations are forwarded to that
// remote emulator over JSON-RPC. Otherwise an in-memory emulator is used,
// persisting its state snapshots to Redis when RedisAddr is set.
type config struct {
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`

	EmulatorEndpoint string `envconfig:"EMULATOR_ENDPOINT"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	EventPollInterval time.Duration `envconfig:"EVENT_POLL_INTERVAL" default:"500ms"`
}

// fail reports a startup error before the logger is available and exits.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// newBackend builds the configured chain backend: a JSON-RPC client for a
// remote emulator, or an embedded in-memory one.
func newBackend(ctx context.Context, cfg config) (blockchain.Backend, func(), error) {
	if cfg.EmulatorEndpoint != "" {
		conn := jsonrpc.NewClient(cfg.EmulatorEndpoint)
		backend := emulatorrpc.NewClient(conn, emulatorrpc.WithRetry(retry.New()))
		return backend, func() {}, nil
	}

	var opts []emulator.Option
	closeStorage := func() {}

	if cfg.RedisAddr != "" {
		storage, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}

		opts = append(opts, emulator.WithSnapshotStorage(storage))
		closeStorage = func() { _ = storage.Close() }
	}

	backend, err := emulator.New(ctx, opts...)
	if err != nil {
		closeStorage()
		return nil, nil, err
	}

	return backend, closeStorage, nil
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := envconfig.Process(serviceName, &cfg); err != nil {
		fail(err)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			fail(err)
		}
		defer shutdown(ctx)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		fail(err)
	}
	defer logger.Sync()

	validation.Init()

	backend, closeBackend, err := newBackend(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize chain backend", "error", err)
	}
	defer closeBackend()

	bc := blockchain.New(backend)
	es := eventstream.New(backend,
		eventstream.WithPollInterval(cfg.EventPollInterval),
		eventstream.WithRetry(retry.New()),
	)

	if err := cli.Run(ctx, bc, es); err != nil {
		logger.Fatal(ctx, "command failed", "error", err)
	}
}
