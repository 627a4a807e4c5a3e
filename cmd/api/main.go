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
	"github.com/jhoicas/Planta-api/internal/application/allocation"
	"github.com/jhoicas/Planta-api/internal/application/auth"
	"github.com/jhoicas/Planta-api/internal/application/deliveries"
	"github.com/jhoicas/Planta-api/internal/application/orders"
	"github.com/jhoicas/Planta-api/internal/application/palletizing"
	"github.com/jhoicas/Planta-api/internal/application/production"
	"github.com/jhoicas/Planta-api/internal/application/stock"
	"github.com/jhoicas/Planta-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Planta-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Planta-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Planta-api/internal/interfaces/http"
	"github.com/jhoicas/Planta-api/pkg/config"
	"github.com/jhoicas/Planta-api/pkg/logger"
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

	// Repositorios sobre el pool (las transacciones crean los suyos propios).
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	machineRepo := postgres.NewMachineRepository(pool)
	recordRepo := postgres.NewProductionRecordRepository(pool)
	palletRepo := postgres.NewPalletizationRepository(pool)
	looseRepo := postgres.NewLooseBalanceRepository(pool)
	movRepo := postgres.NewInventoryMovementRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	poRepo := postgres.NewProductionOrderRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	reportUC := usecase.NewReportUseCase(reportRepo)
	productionUC := production.NewUseCase(recordRepo, machineRepo, productRepo, palletRepo)
	palletizingUC := palletizing.NewUseCase(txRunner, productRepo, recordRepo, palletRepo, looseRepo)
	stockUC := stock.NewUseCase(txRunner, productRepo, recordRepo, looseRepo, movRepo)
	ordersUC := orders.NewUseCase(orderRepo, customerRepo, productRepo, poRepo)
	allocationUC := allocation.NewUseCase(txRunner, productRepo, orderRepo, poRepo, deliveryRepo, movRepo)

	// PDF: remisión de despacho
	pdfGenerator := infrapdf.NewMarotoDeliveryNoteGenerator(cfg.App.Name)
	deliveryPDFUC := deliveries.NewPDFUseCase(deliveryRepo, orderRepo, customerRepo, productRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Planta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		ReportUC:      reportUC,
		ProductionUC:  productionUC,
		PalletizingUC: palletizingUC,
		StockUC:       stockUC,
		OrdersUC:      ordersUC,
		AllocationUC:  allocationUC,
		DeliveryPDF:   deliveryPDFUC,
		JWTSecret:     cfg.JWT.Secret,
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
