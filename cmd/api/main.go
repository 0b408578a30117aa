package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/application/auth"
	"github.com/jhoicas/tiendapp-api/internal/application/inventory"
	"github.com/jhoicas/tiendapp-api/internal/application/jobs"
	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
	"github.com/jhoicas/tiendapp-api/internal/infrastructure/identity"
	"github.com/jhoicas/tiendapp-api/internal/infrastructure/metrics"
	"github.com/jhoicas/tiendapp-api/internal/infrastructure/notifier"
	infrapdf "github.com/jhoicas/tiendapp-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tiendapp-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tiendapp-api/internal/interfaces/http"
	"github.com/jhoicas/tiendapp-api/pkg/config"
	"github.com/jhoicas/tiendapp-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("auth_provider", cfg.Auth.Provider).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepositories(pool, cfg.DB.QueryTimeout)
	m := metrics.New()

	// Verificador de identidad según AUTH_PROVIDER. /api/auth solo existe con el JWT propio.
	var (
		verifier access.IdentityVerifier
		authUC   *auth.AuthUseCase
	)
	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		fb := identity.NewFirebaseVerifier(cfg.Firebase)
		initCtx, cancel := context.WithTimeout(ctx, cfg.Auth.IdentityTimeout)
		err := fb.Init(initCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar Firebase Auth")
		}
		verifier = fb
	default:
		verifier = identity.NewJWTVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
		authUC = auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		})
	}

	gate := access.NewGate(verifier, repos.Users, log.Component("access"), access.Options{
		IdentityTimeout: cfg.Auth.IdentityTimeout,
		QueryTimeout:    cfg.DB.QueryTimeout,
		Observer:        m,
	})

	productUC := usecase.NewProductUseCase(repos.Tx, repos.Products, repos.Stores, repos.Sales, repos.Adjustments)
	reportUC := usecase.NewReportUseCase(repos.Stores, repos.Products, repos.Sales)
	documentUC := usecase.NewDocumentUseCase(reportUC, productUC, infrapdf.NewMarotoRenderer())

	// Avisos: log estructurado con rate limit de salida.
	out := notifier.NewThrottled(notifier.NewLogNotifier(log), cfg.Jobs.NotifyRatePerSec)
	runner := jobs.NewRunner(
		cfg.Jobs.CronSecret,
		jobs.NewSubscriptionNotifier(repos.Users, repos.Notifications, out, cfg.Jobs.SubscriptionNoticeDays),
		jobs.NewDailyBrief(repos.Stores, repos.Users, repos.Products, repos.Sales, repos.Notifications, out),
		log.Component("jobs"),
		m,
	)
	if cfg.Jobs.CronSecret == "" {
		log.Warn().Msg("CRON_SECRET vacío: /api/cron responderá siempre 401")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "TiendApp API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Gate:          gate,
		AuthUC:        authUC,
		AccountUC:     usecase.NewAccountUseCase(repos.Users, repos.Stores, repos.Products, repos.Sales, repos.Adjustments),
		StoreUC:       usecase.NewStoreUseCase(repos.Tx, repos.Stores, repos.Users),
		UserUC:        usecase.NewUserUseCase(repos.Users),
		ProductUC:     productUC,
		SaleUC:        usecase.NewSaleUseCase(repos.Tx, repos.Sales, repos.Stores),
		ReportUC:      reportUC,
		DocumentUC:    documentUC,
		MobileUC:      usecase.NewMobileUseCase(repos.Stores, repos.Products, repos.Sales),
		AdjustStock:   inventory.NewAdjustStockUseCase(repos.Tx, repos.Adjustments),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Stores, repos.Products, repos.Sales),
		Jobs:          runner,
		Metrics:       m.Registry,
		ServiceName:   cfg.App.Name,
		Debug:         cfg.App.IsDevelopment(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
