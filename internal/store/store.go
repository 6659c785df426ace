// Package store provides persistence for user-maintained portfolio state.
package store

import (
	"context"

	"atrad-tracker/internal/models"
)

// SplitsKey is the fixed identifier stock splits are stored under.
const SplitsKey = "portfolio_stockSplits"

// SplitStore persists user-entered stock splits. The engine only needs
// load-on-start and save-on-change semantics; the storage engine behind the
// interface is an implementation detail.
type SplitStore interface {
	LoadSplits(ctx context.Context) ([]models.StockSplit, error)
	SaveSplits(ctx context.Context, splits []models.StockSplit) error
	Close() error
}
