package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/label-quantity/internal/application"
	"github.com/eugenenazirov/label-quantity/internal/config"
	"github.com/eugenenazirov/label-quantity/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("label-quantity", "Label Quantity - assigns label quantities to items by fixed value, volume or headcount")
	overrides := registerFlags(kingpinApp)

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(overrides.resolve())
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// flagValues holds parsed flag targets. Sentinel defaults ("" and -1) mean
// the flag was not given and lower precedence sources apply.
type flagValues struct {
	configFile     *string
	port           *string
	itemCount      *int
	volumeRange    *string
	headcount      *int
	eagerRecompute *bool
	seed           *uint64
	logLevel       *string
	rateLimitRPS   *float64
	rateLimitBurst *int

	eagerSet bool
	seedSet  bool
}

func registerFlags(app *kingpin.Application) *flagValues {
	f := &flagValues{}
	f.configFile = app.Flag("config", "Path to YAML configuration file").String()
	f.port = app.Flag("port", "HTTP port exposed by the service").String()
	f.itemCount = app.Flag("item-count", "Number of items to generate").Default("-1").Int()
	f.volumeRange = app.Flag("volume-range", "Inclusive item volume range as min-max").String()
	f.headcount = app.Flag("headcount", "Per-item baseline used by headcount mode").Default("-1").Int()
	f.eagerRecompute = app.Flag("eager-recompute", "Recompute quantities on every mode change").
		IsSetByUser(&f.eagerSet).Bool()
	f.seed = app.Flag("seed", "Random seed for item volumes (0 uses entropy)").
		IsSetByUser(&f.seedSet).Uint64()
	f.logLevel = app.Flag("log-level", "Log level: debug, info, warn, error").String()
	f.rateLimitRPS = app.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	f.rateLimitBurst = app.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	return f
}

func (f *flagValues) resolve() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *f.configFile,
	}

	if *f.port != "" {
		overrides.Port = f.port
	}

	if *f.itemCount >= 0 {
		overrides.ItemCount = f.itemCount
	}

	if *f.volumeRange != "" {
		overrides.VolumeRangeStr = f.volumeRange
	}

	if *f.headcount >= 0 {
		overrides.Headcount = f.headcount
	}

	if f.eagerSet {
		overrides.EagerRecompute = f.eagerRecompute
	}

	if f.seedSet {
		overrides.Seed = f.seed
	}

	if *f.logLevel != "" {
		overrides.LogLevel = f.logLevel
	}

	if *f.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = f.rateLimitRPS
	}

	if *f.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = f.rateLimitBurst
	}

	return overrides
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
