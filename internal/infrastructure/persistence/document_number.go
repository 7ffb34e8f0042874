package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxNumberAttempts bounds the search for a free number past the last one seen
const maxNumberAttempts = 100

// nextDocumentNumber returns the next free number of the form
// PREFIX-YYYY-NNNNN for a tenant, e.g. INV-2026-00001.
//
// The sequence restarts every year. Deleted rows still hold their number.
// Two writers may compute the same number; the unique index rejects the
// second insert and the caller retries.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, table, column string, tenantID uuid.UUID, prefix string, now time.Time) (string, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, now.Year())

	var last []string
	if err := db.WithContext(ctx).
		Table(table).
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, yearPrefix+"%").
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &last).Error; err != nil {
		return "", err
	}

	next := 1
	if len(last) == 1 {
		var num int
		if _, err := fmt.Sscanf(strings.TrimPrefix(last[0], yearPrefix), "%d", &num); err == nil {
			next = num + 1
		}
	}

	for i := 0; i < maxNumberAttempts; i++ {
		number := fmt.Sprintf("%s%05d", yearPrefix, next)
		var count int64
		if err := db.WithContext(ctx).
			Table(table).
			Where("tenant_id = ? AND "+column+" = ?", tenantID, number).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
		next++
	}
	return "", fmt.Errorf("no free %s number after %d attempts from %s%05d", table, maxNumberAttempts, yearPrefix, next-maxNumberAttempts)
}
