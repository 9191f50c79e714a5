package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"raffler/esi"
)

// PriceQuote is the best visible sell and buy price for one item type.
// A nil side means no matching orders exist.
type PriceQuote struct {
	Sell *float64
	Buy  *float64
}

// priceResult is a cached lookup outcome, failure or not
type priceResult struct {
	quote PriceQuote
	err   error
}

// PriceOracle looks up market quotes with a cache scoped to one collect run.
// Concurrent requests for the same uncached type ID are coalesced so at most
// one upstream lookup happens per type per run.
type PriceOracle struct {
	market   MarketClient
	regionID int32
	// stationID restricts quotes to one station; zero means region-wide
	stationID int64

	group   singleflight.Group
	mu      sync.Mutex
	results map[int32]priceResult
}

// NewPriceOracle creates a price oracle for one run
func NewPriceOracle(market MarketClient, regionID int32, stationID int64) *PriceOracle {
	return &PriceOracle{
		market:    market,
		regionID:  regionID,
		stationID: stationID,
		results:   make(map[int32]priceResult),
	}
}

// Quote returns the best sell/buy prices for an item type, fetching from the
// market at most once per type for the lifetime of this oracle. Transient
// upstream failures are retried until the context is cancelled; definitive
// failures are cached so the type is not fetched again this run. An empty
// order book is a valid empty quote, not an error.
func (o *PriceOracle) Quote(ctx context.Context, typeID int32) (PriceQuote, error) {
	o.mu.Lock()
	if res, ok := o.results[typeID]; ok {
		o.mu.Unlock()
		return res.quote, res.err
	}
	o.mu.Unlock()

	v, _, _ := o.group.Do(strconv.FormatInt(int64(typeID), 10), func() (any, error) {
		o.mu.Lock()
		if res, ok := o.results[typeID]; ok {
			o.mu.Unlock()
			return res, nil
		}
		o.mu.Unlock()

		quote, err := o.fetch(ctx, typeID)
		res := priceResult{quote: quote, err: err}

		// A cancelled run is not a verdict on the type; leave it uncached
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			o.mu.Lock()
			o.results[typeID] = res
			o.mu.Unlock()
		}

		return res, nil
	})

	res := v.(priceResult)
	return res.quote, res.err
}

func (o *PriceOracle) fetch(ctx context.Context, typeID int32) (PriceQuote, error) {
	var orders []esi.MarketOrder
	for {
		var err error
		orders, err = o.market.RegionOrders(ctx, o.regionID, typeID)
		if err == nil {
			break
		}
		if !errors.Is(err, esi.ErrTransient) {
			return PriceQuote{}, fmt.Errorf("failed to fetch orders for type %d: %w", typeID, err)
		}
		log.Warnf("Error fetching orders for type %d, retrying: %v", typeID, err)
		if ctx.Err() != nil {
			return PriceQuote{}, ctx.Err()
		}
	}

	var quote PriceQuote
	for _, order := range orders {
		if o.stationID != 0 && order.LocationID != o.stationID {
			continue
		}
		price := order.Price
		if order.IsBuyOrder {
			if quote.Buy == nil || price > *quote.Buy {
				p := price
				quote.Buy = &p
			}
		} else {
			if quote.Sell == nil || price < *quote.Sell {
				p := price
				quote.Sell = &p
			}
		}
	}

	return quote, nil
}
