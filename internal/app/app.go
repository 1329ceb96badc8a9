package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rndrianasolo/commercepro/internal/auth"
	"github.com/rndrianasolo/commercepro/internal/config"
	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/middleware"
)

type application struct {
	logger *slog.Logger

	router     chi.Router
	protected  chi.Router
	dispatcher chi.Router
	httpSrv    *http.Server

	consumers []Consumer
	workers   []Worker
	eg        *errgroup.Group
}

func New(logger *slog.Logger, cfg config.Config, tokens *auth.JWTService) *application {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Handle("/metrics", promhttp.Handler())

	app := &application{
		logger: logger,
		router: router,
		httpSrv: &http.Server{
			Handler: router,
			Addr:    net.JoinHostPort(cfg.Http.Host, cfg.Http.Port),
		},
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))
		app.protected = r

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(entities.RoleAdmin, entities.RoleCommerce))
			app.dispatcher = r
		})
	})

	return app
}

type HTTPHandler interface {
	Init(r chi.Router)
}

func (a *application) SetPublicHandlers(handlers ...HTTPHandler) {
	for _, h := range handlers {
		h.Init(a.router)
	}
}

// SetProtectedHandlers mounts handlers behind the session token middleware.
func (a *application) SetProtectedHandlers(handlers ...HTTPHandler) {
	for _, h := range handlers {
		h.Init(a.protected)
	}
}

// SetDispatcherHandlers mounts handlers behind the admin/commerce role gate.
func (a *application) SetDispatcherHandlers(handlers ...HTTPHandler) {
	for _, h := range handlers {
		h.Init(a.dispatcher)
	}
}

// SetWebsocketHandler mounts a raw websocket endpoint. Token auth happens
// inside the websocket handshake, not in HTTP middleware.
func (a *application) SetWebsocketHandler(path string, h http.HandlerFunc) {
	a.router.Get(path, h)
}

type Consumer interface {
	Consume(ctx context.Context)
	Close() error
}

func (a *application) SetConsumers(consumers ...Consumer) {
	a.consumers = consumers
}

// Worker is a long-running background loop tied to the application context.
type Worker interface {
	Start(ctx context.Context) error
}

func (a *application) SetWorkers(workers ...Worker) {
	a.workers = workers
}

func (a *application) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	a.eg = eg

	for _, w := range a.workers {
		w := w
		eg.Go(func() error { return w.Start(ctx) })
	}
	for _, c := range a.consumers {
		c := c
		eg.Go(func() error {
			c.Consume(ctx)
			return nil
		})
	}

	go a.startServer()

	a.logger.Info("application started")
	return nil
}

func (a *application) startServer() {
	a.logger.Info("starting http server", slog.String("addr", a.httpSrv.Addr))
	if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("failed to start http server", slog.Any("error", err))
		os.Exit(1)
	}
}

const gracefulShutdownTimeout = 5 * time.Second

func (a *application) Stop() error {
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close consumer", slog.Any("error", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown http server", slog.Any("error", err))
	}

	if a.eg != nil {
		if err := a.eg.Wait(); err != nil {
			return err
		}
	}

	a.logger.Info("application stopped")
	return nil
}
