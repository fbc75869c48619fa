// LanWake Core - Wake-on-LAN device manager
//
// This is the main entry point for the LanWake Core application.
// LanWake is a small LAN service for:
//   - Waking machines with Wake-on-LAN magic packets
//   - Keeping a persisted registry of wakeable devices
//   - Tracking device reachability with concurrent ping probes
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/lan-wake-core/internal/api"
	"github.com/nerrad567/lan-wake-core/internal/device"
	"github.com/nerrad567/lan-wake-core/internal/infrastructure/config"
	"github.com/nerrad567/lan-wake-core/internal/infrastructure/logging"
	"github.com/nerrad567/lan-wake-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/lan-wake-core/internal/infrastructure/tsdb"
	"github.com/nerrad567/lan-wake-core/internal/status"
	"github.com/nerrad567/lan-wake-core/internal/wol"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// configFlag overrides both LANWAKE_CONFIG and the built-in default.
var configFlag = flag.String("config", "", "path to configuration file")

func main() {
	flag.Parse()

	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting LanWake Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration. A missing config file is not an error: the
	// service starts with built-in defaults and an empty registry.
	configPath := getConfigPath()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the device registry
	store, err := device.NewStore(cfg.Registry.Path)
	if err != nil {
		return fmt.Errorf("opening device registry: %w", err)
	}
	store.SetLogger(log)
	log.Info("device registry initialised",
		"path", cfg.Registry.Path,
		"devices", store.Count(),
	)

	// Set up the liveness prober and status cache
	prober := status.NewPingProber(cfg.ProbeTimeout())
	prober.SetLogger(log)

	cache := status.NewCache(prober)
	cache.SetConcurrency(cfg.Probe.Concurrency)
	cache.SetLogger(log)

	// Connect to MQTT broker (optional status publisher)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			// Status publishing is best-effort; the wake server still works.
			log.Warn("MQTT unavailable, status publishing disabled", "error", mqttErr)
		} else {
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			mqttClient.SetLogger(log)
			cache.AddSink(mqttClient)
			log.Info("MQTT connected",
				"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
				"client_id", cfg.MQTT.Broker.ClientID,
			)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional probe history)
	if cfg.TSDB.Enabled {
		writer, tsdbErr := tsdb.Connect(ctx, cfg.TSDB)
		if tsdbErr != nil {
			log.Warn("InfluxDB unavailable, probe history disabled", "error", tsdbErr)
		} else {
			defer func() {
				log.Info("closing InfluxDB connection")
				if closeErr := writer.Close(); closeErr != nil {
					log.Error("error closing InfluxDB", "error", closeErr)
				}
			}()
			writer.SetLogger(log)
			cache.AddSink(writer)
			log.Info("InfluxDB connected",
				"url", cfg.TSDB.URL,
				"org", cfg.TSDB.Org,
				"bucket", cfg.TSDB.Bucket,
			)
		}
	} else {
		log.Info("InfluxDB disabled")
	}

	// Set up the magic packet sender
	sender := wol.NewSender()
	sender.SetLogger(log)
	sender.SetDefaultPort(cfg.Wake.DefaultPort)

	// Start the HTTP API
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log,
		Store:   store,
		Cache:   cache,
		Waker:   sender,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)

	log.Info("LanWake Core stopped")
	return nil
}

// loadConfig reads the config file, falling back to built-in defaults
// when the file does not exist. Any other load failure is fatal.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

// getConfigPath returns the configuration file path.
// Precedence: -config flag, LANWAKE_CONFIG environment variable, default.
func getConfigPath() string {
	if *configFlag != "" {
		return *configFlag
	}
	if path := os.Getenv("LANWAKE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
