package router

import (
	"github.com/gin-gonic/gin"
	"github.com/repairshop/backend/internal/infrastructure/config"
	"github.com/repairshop/backend/internal/infrastructure/logger"
	"github.com/repairshop/backend/internal/interfaces/http/handler"
	"github.com/repairshop/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler mounted by NewEngine
type Handlers struct {
	Health        *handler.HealthHandler
	Inventory     *handler.InventoryHandler
	Transfer      *handler.TransferHandler
	Invoice       *handler.InvoiceHandler
	PurchaseOrder *handler.PurchaseOrderHandler
}

// NewEngine builds the gin engine with the middleware chain and all
// /api/v1 routes
func NewEngine(cfg *config.Config, log *zap.Logger, h Handlers) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(cfg.Telemetry),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.CORS(cfg.HTTP, cfg.App.IsProduction()),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
		middleware.Tenant(middleware.DefaultTenantConfig()),
	)

	engine.GET("/health", h.Health.Check)

	NewRouter(engine).Register(
		NewResourceGroup("/health").
			GET("", h.Health.Check),
		NewResourceGroup("/locations").
			POST("", h.Inventory.CreateLocation).
			GET("", h.Inventory.ListLocations).
			GET("/:id", h.Inventory.GetLocation),
		NewResourceGroup("/inventory-items").
			POST("", h.Inventory.CreateItem).
			GET("", h.Inventory.ListItems).
			GET("/:id", h.Inventory.GetItem).
			DELETE("/:id", h.Inventory.DeleteItem).
			POST("/:id/adjust", h.Inventory.AdjustStock),
		NewResourceGroup("/inventory-transfers").
			POST("", h.Transfer.Create).
			GET("", h.Transfer.List).
			GET("/:id", h.Transfer.Get).
			POST("/:id/complete", h.Transfer.Complete).
			POST("/:id/cancel", h.Transfer.Cancel),
		NewResourceGroup("/invoices").
			POST("", h.Invoice.Create).
			GET("", h.Invoice.List).
			GET("/:id", h.Invoice.Get).
			DELETE("/:id", h.Invoice.Delete).
			PUT("/:id/terms", h.Invoice.SetTerms).
			POST("/:id/issue", h.Invoice.Issue).
			POST("/:id/pay", h.Invoice.Pay).
			POST("/:id/cancel", h.Invoice.Cancel).
			POST("/:id/recalculate", h.Invoice.Recalculate).
			POST("/:id/items", h.Invoice.CreateItem).
			PUT("/:id/items/:itemId", h.Invoice.UpdateItem).
			DELETE("/:id/items/:itemId", h.Invoice.DeleteItem),
		NewResourceGroup("/purchase-orders").
			POST("", h.PurchaseOrder.Create).
			GET("", h.PurchaseOrder.List).
			GET("/:id", h.PurchaseOrder.Get).
			POST("/:id/order", h.PurchaseOrder.Order).
			POST("/:id/cancel", h.PurchaseOrder.Cancel).
			POST("/:id/receive", h.PurchaseOrder.Receive),
	).Setup()

	return engine, nil
}
