package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE invoices;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"valid field returns field", "invoice_number", "invoice_number"},
		{"invalid field returns default", "tenant_id", "created_at"},
		{"sql injection attempt returns default", "status; DROP TABLE invoices;--", "created_at"},
		{"case sensitive", "STATUS", "created_at"},
		{"whitespace around valid field returns field", "  due_date  ", "due_date"},
		{"quotes injection returns default", "status'--", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, InvoiceSortFields, "created_at"))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"LocationSortFields":      LocationSortFields,
		"InventoryItemSortFields": InventoryItemSortFields,
		"TransferSortFields":      TransferSortFields,
		"InvoiceSortFields":       InvoiceSortFields,
		"PurchaseOrderSortFields": PurchaseOrderSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			assert.True(t, whitelist["created_at"], "%s should allow created_at", name)
			assert.True(t, whitelist["updated_at"], "%s should allow updated_at", name)
			assert.False(t, whitelist["tenant_id"], "%s must not allow tenant_id", name)
		})
	}
}
