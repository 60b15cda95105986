package application

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/label-quantity/internal/api"
	"github.com/eugenenazirov/label-quantity/internal/config"
	"github.com/eugenenazirov/label-quantity/internal/quantity"
	"github.com/eugenenazirov/label-quantity/internal/storage"
	"github.com/eugenenazirov/label-quantity/web"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...quantity.Option) (*App, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	engine := NewEngine(cfg, opts...)
	store := storage.NewMemoryStorage(engine)

	handler := api.NewHandler(store, api.WithLogger(logger))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	rootHandler := BuildRootHandler(apiRouter)

	logger.Info("items generated",
		zap.Int("item_count", len(engine.Items())),
		zap.Stringer("volume_range", cfg.VolumeRange),
		zap.Int("headcount", engine.Headcount()),
		zap.Bool("eager_recompute", engine.EagerRecompute()),
		zap.Bool("seeded", cfg.Seed != 0),
	)

	return &App{
		storage: store,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, rootHandler),
	}, nil
}

// NewEngine generates the item set described by cfg. opts are applied last
// and override the configured random source or id generator.
func NewEngine(cfg config.Config, opts ...quantity.Option) *quantity.Engine {
	base := []quantity.Option{
		quantity.WithItemCount(cfg.ItemCount),
		quantity.WithVolumeRange(cfg.VolumeRange),
		quantity.WithHeadcount(cfg.Headcount),
		quantity.WithEagerRecompute(cfg.EagerRecompute),
		quantity.WithSource(quantity.NewSource(cfg.Seed)),
	}
	return quantity.New(append(base, opts...)...)
}

// BuildRootHandler serves the embedded form at "/", its assets under
// "/static/", and routes "/api/" to apiHandler.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	mux.Handle("/api/", apiHandler)

	templates := web.Templates()
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, templates, "index.html")
	}))

	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}
