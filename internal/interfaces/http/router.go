package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/allocation"
	"github.com/jhoicas/Planta-api/internal/application/auth"
	"github.com/jhoicas/Planta-api/internal/application/deliveries"
	"github.com/jhoicas/Planta-api/internal/application/orders"
	"github.com/jhoicas/Planta-api/internal/application/palletizing"
	"github.com/jhoicas/Planta-api/internal/application/production"
	"github.com/jhoicas/Planta-api/internal/application/stock"
	"github.com/jhoicas/Planta-api/internal/application/usecase"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *usecase.CustomerUseCase
	ReportUC      *usecase.ReportUseCase
	ProductionUC  *production.UseCase
	PalletizingUC *palletizing.UseCase
	StockUC       *stock.UseCase
	OrdersUC      *orders.UseCase
	AllocationUC  *allocation.UseCase
	DeliveryPDF   *deliveries.PDFUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	planta := RequireRole(entity.RoleProduccion)
	ventas := RequireRole(entity.RoleVentas)
	cualquiera := RequireRole(entity.RoleProduccion, entity.RoleVentas)

	// Products (catálogo: lectura para todos, escritura solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", cualquiera, productHandler.List)
	products.Get("/:id", cualquiera, productHandler.GetByID)
	products.Post("/", RequireRole(), productHandler.Create)
	products.Put("/:id", RequireRole(), productHandler.Update)
	products.Put("/:id/recipe", RequireRole(), productHandler.UpsertRecipe)

	// Machines + production records (planta)
	productionHandler := NewProductionHandler(deps.ProductionUC)
	machines := protected.Group("/machines", planta)
	machines.Post("/", productionHandler.CreateMachine)
	machines.Get("/", productionHandler.ListMachines)
	prodGroup := protected.Group("/production", planta)
	prodGroup.Post("/records", productionHandler.RegisterRecord)
	prodGroup.Get("/records", productionHandler.ListRecordsByDate)
	prodGroup.Put("/records/:id", productionHandler.UpdateRecord)
	prodGroup.Delete("/records/:id", productionHandler.DeleteRecord)

	// Palletizing (planta)
	palletizingHandler := NewPalletizingHandler(deps.PalletizingUC)
	palletGroup := protected.Group("/palletizing", planta)
	palletGroup.Get("/pending", palletizingHandler.Pending)
	palletGroup.Post("/reconcile", palletizingHandler.Reconcile)
	palletGroup.Post("/form-pallet/:product_id", palletizingHandler.FormPallet)
	palletGroup.Get("/", palletizingHandler.ListByProduct)
	palletGroup.Get("/:id", palletizingHandler.GetByID)
	palletGroup.Delete("/:id", palletizingHandler.Delete)

	// Stock (lectura para todos; salidas manuales solo planta)
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/", cualquiera, stockHandler.Summary)
	stockGroup.Post("/movements", planta, stockHandler.RegisterOut)
	stockGroup.Delete("/movements/:id", planta, stockHandler.DeleteMovement)
	stockGroup.Get("/:product_id", cualquiera, stockHandler.Get)
	stockGroup.Get("/:product_id/movements", cualquiera, stockHandler.Movements)

	// Customers (ventas)
	customers := protected.Group("/customers", ventas)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Orders + allocation engine (ventas)
	orderHandler := NewOrderHandler(deps.OrdersUC, deps.AllocationUC)
	ordersGroup := protected.Group("/orders", ventas)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id/status", orderHandler.Transition)
	ordersGroup.Get("/:id/check-stock", orderHandler.CheckStock)
	ordersGroup.Post("/:id/production-orders", orderHandler.GenerateProductionOrders)
	ordersGroup.Get("/:id/delivery-availability", orderHandler.DeliveryAvailability)
	ordersGroup.Post("/:id/deliveries", orderHandler.RecordDelivery)
	ordersGroup.Get("/:id/deliveries", orderHandler.ListDeliveries)

	// Production orders (planta y ventas: planta las ejecuta, ventas las consulta)
	poHandler := NewProductionOrderHandler(deps.AllocationUC)
	poGroup := protected.Group("/production-orders", cualquiera)
	poGroup.Get("/", poHandler.List)
	poGroup.Put("/:id/status", poHandler.UpdateStatus)

	// Deliveries (remisión + PDF)
	deliveryHandler := NewDeliveryHandler(deps.AllocationUC, deps.DeliveryPDF)
	deliveriesGroup := protected.Group("/deliveries", ventas)
	deliveriesGroup.Get("/:id", deliveryHandler.GetByID)
	deliveriesGroup.Get("/:id/pdf", deliveryHandler.PDF)

	// Reports (todos los roles autenticados)
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports", cualquiera)
	reports.Get("/production", reportHandler.ProductionByDay)
	reports.Get("/loss", reportHandler.LossByProduct)
	reports.Get("/stock", reportHandler.StockSummary)
}
