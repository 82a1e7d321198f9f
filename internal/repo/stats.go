// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
)

// ContactRequestsStats returns the number of requests matching f and the
// greatest UpdatedAt among them. When nothing matches, the count is 0 and
// maxUpdatedAt is nil.
func ContactRequestsStats(ctx context.Context, db *gorm.DB, f Filter) (count int64, maxUpdatedAt *time.Time, err error) {
	q := applyFilter(db.WithContext(ctx).Model(&domain.ContactRequest{}), f)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	q = applyFilter(db.WithContext(ctx).Model(&domain.ContactRequest{}), f)
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
