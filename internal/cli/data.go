package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	apperrors "atrad-tracker/internal/errors"
	"atrad-tracker/internal/lots"
	"atrad-tracker/internal/models"
	"atrad-tracker/internal/parse"
)

// Imported CSVs are kept verbatim under the data directory and re-parsed on
// every command, so a rebuild always reflects the full history.
const (
	ordersFile    = "orders.csv"
	watchlistFile = "watchlist.csv"
	portfolioFile = "portfolio.csv"
	rangesFile    = "action_ranges.csv"
)

func (a *App) dataPath(name string) string {
	return filepath.Join(a.Config.Data.Dir, name)
}

// readData reads one of the imported CSVs. A missing file is reported as
// ErrDataNotFound so commands can tell the user what to import.
func (a *App) readData(name string) (string, error) {
	data, err := os.ReadFile(a.dataPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s (run 'tracker import' first)", apperrors.ErrDataNotFound, name)
		}
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

func (a *App) loadOrders() ([]models.Order, error) {
	text, err := a.readData(ordersFile)
	if err != nil {
		return nil, err
	}
	return parse.OrderTracker(text)
}

// loadPrices returns the watchlist price map, or an empty map when no
// watchlist has been imported. Prices are optional for lot accounting.
func (a *App) loadPrices() (map[string]float64, error) {
	text, err := a.readData(watchlistFile)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataNotFound) {
			return map[string]float64{}, nil
		}
		return nil, err
	}
	return parse.Watchlist(text)
}

// loadPortfolio returns broker-reported sales figures, or an empty map when
// no portfolio summary has been imported.
func (a *App) loadPortfolio() (map[string]models.PortfolioEntry, error) {
	text, err := a.readData(portfolioFile)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataNotFound) {
			return map[string]models.PortfolioEntry{}, nil
		}
		return nil, err
	}
	return parse.Portfolio(text)
}

// loadRanges returns action price ranges, or an empty map when none have
// been imported.
func (a *App) loadRanges() (map[string]models.ActionPriceRange, error) {
	text, err := a.readData(rangesFile)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataNotFound) {
			return map[string]models.ActionPriceRange{}, nil
		}
		return nil, err
	}
	return parse.ActionPriceRanges(text)
}

// loadSplits returns the persisted stock splits. Without a store the split
// list is empty rather than an error.
func (a *App) loadSplits(ctx context.Context) ([]models.StockSplit, error) {
	if a.Store == nil {
		return nil, nil
	}
	return a.Store.LoadSplits(ctx)
}

// buildLots rebuilds tax lots from the imported orders and persisted splits.
func (a *App) buildLots(ctx context.Context) ([]*models.Lot, []models.Order, error) {
	orders, err := a.loadOrders()
	if err != nil {
		return nil, nil, err
	}
	splits, err := a.loadSplits(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading splits: %w", err)
	}
	builder := lots.NewBuilder(a.Logger)
	return builder.ProcessOrders(orders, splits), orders, nil
}

// buildHoldings rebuilds lots and aggregates them into holdings with
// watchlist prices applied.
func (a *App) buildHoldings(ctx context.Context) (map[string]*models.SecurityHolding, []models.Order, error) {
	allLots, orders, err := a.buildLots(ctx)
	if err != nil {
		return nil, nil, err
	}
	prices, err := a.loadPrices()
	if err != nil {
		return nil, nil, err
	}
	return lots.Holdings(allLots, prices), orders, nil
}
