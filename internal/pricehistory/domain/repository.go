package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository reads the audit trail. Writes happen only through the
// registered after-update callback, never through a repository call.
type Repository interface {
	// ListByProduct returns the audit trail in insertion order.
	ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]PriceHistory, error)
}
