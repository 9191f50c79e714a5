package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"raffler/esi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func forgeOrders() []esi.MarketOrder {
	return []esi.MarketOrder{
		{OrderID: 1, TypeID: 587, LocationID: 60003760, Price: 60000000, IsBuyOrder: false},
		{OrderID: 2, TypeID: 587, LocationID: 60003760, Price: 58000000, IsBuyOrder: false},
		{OrderID: 3, TypeID: 587, LocationID: 60003760, Price: 54730000, IsBuyOrder: true},
		{OrderID: 4, TypeID: 587, LocationID: 60003760, Price: 50000000, IsBuyOrder: true},
		// Orders at a different station in the same region
		{OrderID: 5, TypeID: 587, LocationID: 60008494, Price: 40000000, IsBuyOrder: false},
		{OrderID: 6, TypeID: 587, LocationID: 60008494, Price: 70000000, IsBuyOrder: true},
	}
}

func TestPriceOracle_StationQuote(t *testing.T) {
	ctx := context.Background()
	mockMarket := new(MockMarketClient)
	mockMarket.On("RegionOrders", ctx, TheForgeRegionID, int32(587)).Return(forgeOrders(), nil).Once()

	oracle := NewPriceOracle(mockMarket, TheForgeRegionID, JitaStationID)

	quote, err := oracle.Quote(ctx, 587)
	require.NoError(t, err)

	require.NotNil(t, quote.Sell)
	assert.Equal(t, 58000000.0, *quote.Sell)
	require.NotNil(t, quote.Buy)
	assert.Equal(t, 54730000.0, *quote.Buy)

	mockMarket.AssertExpectations(t)
}

func TestPriceOracle_RegionWideQuote(t *testing.T) {
	ctx := context.Background()
	mockMarket := new(MockMarketClient)
	mockMarket.On("RegionOrders", ctx, TheForgeRegionID, int32(587)).Return(forgeOrders(), nil).Once()

	oracle := NewPriceOracle(mockMarket, TheForgeRegionID, 0)

	quote, err := oracle.Quote(ctx, 587)
	require.NoError(t, err)

	require.NotNil(t, quote.Sell)
	assert.Equal(t, 40000000.0, *quote.Sell)
	require.NotNil(t, quote.Buy)
	assert.Equal(t, 70000000.0, *quote.Buy)
}

func TestPriceOracle_EmptyOrderBook(t *testing.T) {
	ctx := context.Background()
	mockMarket := new(MockMarketClient)
	mockMarket.On("RegionOrders", ctx, TheForgeRegionID, int32(587)).Return([]esi.MarketOrder{}, nil).Once()

	oracle := NewPriceOracle(mockMarket, TheForgeRegionID, JitaStationID)

	quote, err := oracle.Quote(ctx, 587)
	require.NoError(t, err)
	assert.Nil(t, quote.Sell)
	assert.Nil(t, quote.Buy)
}

func TestPriceOracle_FetchesOncePerType(t *testing.T) {
	ctx := context.Background()

	var calls atomic.Int64
	mockMarket := new(MockMarketClient)
	mockMarket.On("RegionOrders", ctx, TheForgeRegionID, int32(587)).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return(forgeOrders(), nil)

	oracle := NewPriceOracle(mockMarket, TheForgeRegionID, JitaStationID)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			quote, err := oracle.Quote(ctx, 587)
			assert.NoError(t, err)
			assert.NotNil(t, quote.Sell)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
}

func TestPriceOracle_RetriesTransientErrors(t *testing.T) {
	ctx := context.Background()
	mockMarket := new(MockMarketClient)
	mockMarket.On("RegionOrders", ctx, TheForgeRegionID, int32(587)).
		Return(nil, esi.ErrTransient).Twice()
	mockMarket.On("RegionOrders", ctx, TheForgeRegionID, int32(587)).
		Return(forgeOrders(), nil).Once()

	oracle := NewPriceOracle(mockMarket, TheForgeRegionID, JitaStationID)

	quote, err := oracle.Quote(ctx, 587)
	require.NoError(t, err)
	require.NotNil(t, quote.Sell)

	mockMarket.AssertExpectations(t)
}

func TestPriceOracle_DefinitiveErrorFailsFast(t *testing.T) {
	ctx := context.Background()
	definitive := errors.New("type not found")

	mockMarket := new(MockMarketClient)
	mockMarket.On("RegionOrders", ctx, TheForgeRegionID, int32(587)).Return(nil, definitive).Once()

	oracle := NewPriceOracle(mockMarket, TheForgeRegionID, JitaStationID)

	_, err := oracle.Quote(ctx, 587)
	require.Error(t, err)
	assert.ErrorIs(t, err, definitive)

	mockMarket.AssertExpectations(t)
}

func TestPriceOracle_DefinitiveErrorNotRefetched(t *testing.T) {
	ctx := context.Background()
	definitive := errors.New("type not found")

	mockMarket := new(MockMarketClient)
	mockMarket.On("RegionOrders", ctx, TheForgeRegionID, int32(587)).Return(nil, definitive).Once()

	oracle := NewPriceOracle(mockMarket, TheForgeRegionID, JitaStationID)

	_, err := oracle.Quote(ctx, 587)
	require.Error(t, err)

	// The failure is remembered; the type is not fetched again this run
	_, err = oracle.Quote(ctx, 587)
	require.Error(t, err)
	assert.ErrorIs(t, err, definitive)

	mockMarket.AssertNumberOfCalls(t, "RegionOrders", 1)
}
