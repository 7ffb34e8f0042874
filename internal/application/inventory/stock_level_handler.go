package inventory

import (
	"context"
	"fmt"

	"github.com/repairshop/backend/internal/domain/inventory"
	"github.com/repairshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Alert types
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// StockAlert represents a stock level alert
type StockAlert struct {
	TenantID        string `json:"tenant_id"`
	InventoryItemID string `json:"inventory_item_id"`
	SKU             string `json:"sku"`
	LocationID      string `json:"location_id"`
	Quantity        int    `json:"quantity"`
	ReorderLevel    int    `json:"reorder_level"`
	AlertType       string `json:"alert_type"`
}

// StockAlertNotifier is the interface for sending stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockLevelHandler watches StockAdjusted events and raises an alert when a
// deduction leaves an item at or below its reorder level.
type StockLevelHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewStockLevelHandler creates a new StockLevelHandler
func NewStockLevelHandler(logger *zap.Logger) *StockLevelHandler {
	return &StockLevelHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockLevelHandler) WithNotifier(notifier StockAlertNotifier) *StockLevelHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockLevelHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockAdjusted}
}

// Handle processes a StockAdjustedEvent
func (h *StockLevelHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	adjusted, ok := event.(*inventory.StockAdjustedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockAdjusted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockAdjusted, event.EventType())
	}

	// Restocks never trigger an alert
	if adjusted.Delta >= 0 || adjusted.Quantity > adjusted.ReorderLevel {
		return nil
	}

	alertType := AlertTypeLowStock
	if adjusted.Quantity == 0 {
		alertType = AlertTypeOutOfStock
	}

	h.logger.Warn("stock at or below reorder level",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("inventory_item_id", adjusted.InventoryItemID.String()),
		zap.String("sku", adjusted.SKU),
		zap.String("location_id", adjusted.LocationID.String()),
		zap.Int("quantity", adjusted.Quantity),
		zap.Int("reorder_level", adjusted.ReorderLevel),
		zap.String("reason", adjusted.Reason),
	)

	if h.notifier == nil {
		return nil
	}

	alert := StockAlert{
		TenantID:        event.TenantID().String(),
		InventoryItemID: adjusted.InventoryItemID.String(),
		SKU:             adjusted.SKU,
		LocationID:      adjusted.LocationID.String(),
		Quantity:        adjusted.Quantity,
		ReorderLevel:    adjusted.ReorderLevel,
		AlertType:       alertType,
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// Notification failure shouldn't fail the event handling
		h.logger.Error("failed to send stock alert notification",
			zap.String("inventory_item_id", alert.InventoryItemID),
			zap.Error(err),
		)
	}
	return nil
}

// Ensure StockLevelHandler implements shared.EventHandler
var _ shared.EventHandler = (*StockLevelHandler)(nil)

// LoggingStockAlertNotifier is a notifier that only logs alerts
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{
		logger: logger,
	}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(ctx context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("sku", alert.SKU),
		zap.String("location_id", alert.LocationID),
		zap.Int("quantity", alert.Quantity),
		zap.Int("reorder_level", alert.ReorderLevel),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
