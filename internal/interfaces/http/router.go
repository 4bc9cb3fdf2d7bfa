package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiel-api/internal/application/auth"
	"github.com/jhoicas/Materiel-api/internal/application/catalog"
	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/application/equipment"
	"github.com/jhoicas/Materiel-api/internal/application/ledger"
	"github.com/jhoicas/Materiel-api/internal/application/notification"
	"github.com/jhoicas/Materiel-api/internal/application/reporting"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ConsumableUC   *catalog.ConsumableUseCase
	MaterialUC     *catalog.MaterialUseCase
	ServiceUC      *catalog.ServiceUseCase
	DonorUC        *catalog.DonorUseCase
	ClassUC        *catalog.ClassUseCase
	CategoryUC     *catalog.CategoryUseCase
	LedgerUC       *ledger.LedgerUseCase
	EquipmentUC    *equipment.EquipmentUseCase
	NotificationUC *notification.NotificationUseCase
	ReportingUC    *reporting.ReportingUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireAdmin()

	protected.Get("/me", authHandler.Me)

	// Catálogo: lectura para todos, mutaciones solo RESPONSABLE/DIRECTEUR
	NewCatalogHandler[dto.ConsumableRequest, dto.ConsumableResponse](deps.ConsumableUC).register(protected.Group("/consommable"), admin)
	NewCatalogHandler[dto.MaterialDTO, dto.MaterialDTO](deps.MaterialUC).register(protected.Group("/materiel"), admin)
	NewCatalogHandler[dto.ServiceDTO, dto.ServiceDTO](deps.ServiceUC).register(protected.Group("/service"), admin)
	NewCatalogHandler[dto.DonorDTO, dto.DonorDTO](deps.DonorUC).register(protected.Group("/donneur"), admin)
	NewCatalogHandler[dto.ClassDTO, dto.ClassDTO](deps.ClassUC).register(protected.Group("/classe"), admin)
	NewCatalogHandler[dto.CategoryDTO, dto.CategoryDTO](deps.CategoryUC).register(protected.Group("/categorie"), admin)

	// Lotes de consumibles
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	donations := protected.Group("/lot_consommable")
	donations.Get("/", ledgerHandler.ListDonations)
	donations.Get("/count/count", ledgerHandler.CountDonations)
	donations.Get("/consommable/:id", ledgerHandler.ListDonationsByConsumable)
	donations.Get("/:id", ledgerHandler.GetDonation)
	donations.Post("/", admin, ledgerHandler.CreateDonation)
	donations.Put("/:id", admin, ledgerHandler.UpdateDonation)
	donations.Delete("/:id", admin, ledgerHandler.DeleteDonation)

	// Préstamos de consumibles (cualquier cuenta autenticada)
	consumableLoans := protected.Group("/pret_consommable")
	consumableLoans.Get("/", ledgerHandler.ListLoans)
	consumableLoans.Get("/count/count", ledgerHandler.CountLoans)
	consumableLoans.Get("/service/:id", ledgerHandler.ListLoansByService)
	consumableLoans.Get("/:id", ledgerHandler.GetLoan)
	consumableLoans.Post("/", ledgerHandler.CreateLoan)
	consumableLoans.Put("/:id", ledgerHandler.UpdateLoan)
	consumableLoans.Delete("/:id", ledgerHandler.DeleteLoan)
	protected.Put("/epuise/:id", ledgerHandler.MarkExhausted)

	// Lotes de material
	equipmentHandler := NewEquipmentHandler(deps.EquipmentUC)
	lots := protected.Group("/lot")
	lots.Get("/", equipmentHandler.ListLots)
	lots.Get("/count/count", equipmentHandler.CountLots)
	lots.Get("/etat/count", equipmentHandler.CountByCondition)
	lots.Get("/disponible", equipmentHandler.Available)
	lots.Get("/jamais_pretes", equipmentHandler.NeverLoaned)
	lots.Get("/service/:id", equipmentHandler.ListByService)
	lots.Get("/service/:id/count", equipmentHandler.CountByService)
	lots.Get("/:id", equipmentHandler.GetLot)
	lots.Post("/", admin, equipmentHandler.CreateLot)
	lots.Post("/batch", admin, equipmentHandler.CreateLotsBatch)
	lots.Put("/:id/etat", equipmentHandler.UpdateCondition)
	lots.Put("/:id", admin, equipmentHandler.UpdateLot)
	lots.Delete("/:id", admin, equipmentHandler.DeleteLot)

	// Préstamos de material
	loans := protected.Group("/pret")
	loans.Get("/", equipmentHandler.ListLoans)
	loans.Get("/count/count", equipmentHandler.CountLoans)
	loans.Get("/:id", equipmentHandler.GetLoan)
	loans.Post("/", admin, equipmentHandler.Dispatch)
	loans.Post("/envoi_plusieur", admin, equipmentHandler.DispatchRandom)
	loans.Put("/:id/retour", admin, equipmentHandler.ReturnLoan)
	loans.Put("/:id/transfert", admin, equipmentHandler.TransferLoan)
	loans.Delete("/:id", admin, equipmentHandler.DeleteLoan)
	protected.Get("/distribution/:id", equipmentHandler.Distribution)

	// Notificaciones
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := protected.Group("/notification")
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/count/count", notificationHandler.Count)
	notifications.Get("/compte/:id", notificationHandler.ListForAccount)
	notifications.Get("/compte/:id/non_lues", notificationHandler.UnreadCount)
	notifications.Put("/compte/:id/lu", notificationHandler.MarkAllRead)
	notifications.Get("/:id", notificationHandler.GetByID)
	notifications.Put("/:id/lu", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportingUC)
	protected.Get("/stock/:id/pdf", reportHandler.StockTracePDF)
	protected.Get("/stock/:id", reportHandler.StockTrace)
	inventory := protected.Group("/inventaire")
	inventory.Get("/:id/pdf", reportHandler.InventoryPDF)
	inventory.Get("/:id/:id_classe/pdf", reportHandler.InventoryPDF)
	inventory.Get("/:id/:id_classe?", reportHandler.Inventory)
	spending := protected.Group("/depense")
	spending.Get("/:serviceId/auto", reportHandler.MonthlyAuto)
	spending.Get("/:serviceId/top", reportHandler.Top)
	spending.Get("/:serviceId", reportHandler.Monthly)
	protected.Get("/dash", reportHandler.Dashboard)
}
