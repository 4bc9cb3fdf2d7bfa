package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Materiel-api/internal/application/auth"
	"github.com/jhoicas/Materiel-api/internal/application/catalog"
	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/application/equipment"
	"github.com/jhoicas/Materiel-api/internal/application/ledger"
	"github.com/jhoicas/Materiel-api/internal/application/notification"
	"github.com/jhoicas/Materiel-api/internal/application/reporting"
	"github.com/jhoicas/Materiel-api/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/Materiel-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Materiel-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Materiel-api/internal/interfaces/http"
	"github.com/jhoicas/Materiel-api/pkg/config"
	"github.com/jhoicas/Materiel-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	consumableRepo := postgres.NewConsumableRepository(pool)
	donationLotRepo := postgres.NewDonationLotRepository(pool)
	equipmentLotRepo := postgres.NewEquipmentLotRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	donorRepo := postgres.NewDonorRepository(pool)
	classRepo := postgres.NewClassRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Broker opcional (kafka | redis); sin broker las notificaciones solo quedan en la tabla.
	publisher, err := events.NewPublisher(cfg.Notify)
	if err != nil {
		log.Fatal().Err(err).Msg("broker de notificaciones")
	}
	if publisher != nil {
		if p, ok := publisher.(interface{ Ping(context.Context) error }); ok {
			pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
			if err := p.Ping(pingCtx); err != nil {
				log.Warn().Err(err).Str("broker", cfg.Notify.Broker).Msg("broker no responde; se reintentará en cada publicación")
			}
			cancelPing()
		}
		log.Info().Str("broker", cfg.Notify.Broker).Msg("difusión de notificaciones activa")
	}
	emitter := notification.NewEmitter(notificationRepo, publisher, log)

	ledgerUC := ledger.NewLedgerUseCase(txRunner, consumableRepo, donationLotRepo, loanRepo, donorRepo, serviceRepo, emitter)
	equipmentUC := equipment.NewEquipmentUseCase(txRunner, equipmentLotRepo, loanRepo, materialRepo, donorRepo, serviceRepo, emitter, log)
	notificationUC := notification.NewNotificationUseCase(notificationRepo, accountRepo)
	reportingUC := reporting.NewReportingUseCase(
		reportRepo, serviceRepo, classRepo, consumableRepo, equipmentLotRepo,
		infrapdf.NewMarotoRenderer(cfg.App.Name),
	)
	authUC := auth.NewAuthUseCase(accountRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs (generado con swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Gestion Matériel API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ConsumableUC:   catalog.NewConsumableUseCase(consumableRepo),
		MaterialUC:     catalog.NewMaterialUseCase(materialRepo),
		ServiceUC:      catalog.NewServiceUseCase(serviceRepo),
		DonorUC:        catalog.NewDonorUseCase(donorRepo),
		ClassUC:        catalog.NewClassUseCase(classRepo),
		CategoryUC:     catalog.NewCategoryUseCase(categoryRepo),
		LedgerUC:       ledgerUC,
		EquipmentUC:    equipmentUC,
		NotificationUC: notificationUC,
		ReportingUC:    reportingUC,
		JWTSecret:      cfg.JWT.Secret,
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
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("cierre del broker de notificaciones")
		}
	}

	log.Info().Msg("aplicación detenida")
}
