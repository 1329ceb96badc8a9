package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/rndrianasolo/commercepro/internal/app"
	"github.com/rndrianasolo/commercepro/internal/auth"
	"github.com/rndrianasolo/commercepro/internal/config"
	"github.com/rndrianasolo/commercepro/internal/handler"
	"github.com/rndrianasolo/commercepro/internal/postgres"
	"github.com/rndrianasolo/commercepro/internal/repo"
	"github.com/rndrianasolo/commercepro/internal/service"
	"github.com/rndrianasolo/commercepro/internal/tracking"
	"github.com/rndrianasolo/commercepro/internal/ws"
	"github.com/rndrianasolo/commercepro/pkg/cache"
	"github.com/rndrianasolo/commercepro/pkg/trm"

	"github.com/joho/godotenv"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	driverRepo := repo.NewDriverRepo(db)
	saleRepo := repo.NewSaleRepo(db)
	productRepo := repo.NewProductRepo(db)
	userRepo := repo.NewUserRepo(db)

	txManager := trm.NewManager(db)
	saleCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	tokens := auth.NewJWTService(conf.JWT)

	trackingService := service.NewTrackingService(logger, driverRepo, conf.Tracking)
	dispatchService := service.NewDispatchService(logger, saleRepo, driverRepo, saleCache)
	salesService := service.NewSalesService(logger, txManager, saleRepo, productRepo, saleCache)
	inventoryService := service.NewInventoryService(logger, productRepo)
	reportsService := service.NewReportsService(logger, saleRepo, productRepo, driverRepo)
	authService := service.NewAuthService(logger, userRepo, tokens, trackingService)

	hub := ws.NewHub(logger, func(token string) (string, string, error) {
		claims, err := tokens.ValidateToken(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID, claims.Role, nil
	})
	feed := tracking.NewFeed(logger, trackingService, hub, conf.Tracking.FeedInterval)

	authHandler := handler.NewAuthHandler(logger, authService)
	driverHandler := handler.NewDriverHandler(logger, trackingService)
	orderHandler := handler.NewOrderHandler(logger, dispatchService)
	salesHandler := handler.NewSalesHandler(logger, salesService)
	productHandler := handler.NewProductHandler(logger, inventoryService)
	reportsHandler := handler.NewReportsHandler(logger, reportsService)
	kafkaHandler := handler.NewKafkaHandler(logger, conf.Kafka, trackingService)

	application := app.New(logger, conf, tokens)

	application.SetPublicHandlers(authHandler)
	application.SetProtectedHandlers(
		protectedAuthRoutes{authHandler},
		driverHandler,
		orderHandler,
		salesHandler,
		productHandler,
		reportsHandler,
	)
	application.SetDispatcherHandlers(
		dispatcherOrderRoutes{orderHandler},
		dispatcherProductRoutes{productHandler},
	)
	application.SetWebsocketHandler("/deliveries/live", hub.ServeWS)
	application.SetConsumers(kafkaHandler)
	application.SetWorkers(hub, feed, janitorWorker{saleCache})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", application.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", application.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type protectedAuthRoutes struct{ h *handler.AuthHandler }

func (r protectedAuthRoutes) Init(router chi.Router) { r.h.InitProtected(router) }

type dispatcherOrderRoutes struct{ h *handler.OrderHandler }

func (r dispatcherOrderRoutes) Init(router chi.Router) { r.h.InitDispatcher(router) }

type dispatcherProductRoutes struct{ h *handler.ProductHandler }

func (r dispatcherProductRoutes) Init(router chi.Router) { r.h.InitDispatcher(router) }

type janitorWorker struct{ cache *cache.LRUCache }

func (w janitorWorker) Start(ctx context.Context) error {
	w.cache.StartJanitor(ctx)
	<-ctx.Done()
	return nil
}
