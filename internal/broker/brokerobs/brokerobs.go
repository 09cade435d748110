// Package brokerobs wraps a Broker with logging and tracing middleware.
package brokerobs

import (
	"context"
	"fmt"

	"trade-advisor/internal/interfaces"
	"trade-advisor/internal/logger"
	"trade-advisor/internal/trace"
	"trade-advisor/internal/types"
)

type observableBroker struct {
	broker interfaces.Broker
}

var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware.
func Wrap(b interfaces.Broker) interfaces.Broker {
	return &observableBroker{broker: b}
}

func (ob *observableBroker) FetchBars(ctx context.Context, symbol, timeframe string, count int) ([]types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "broker.FetchBars")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching bars", "symbol", symbol, "timeframe", timeframe, "count", count)

	bars, err := ob.broker.FetchBars(ctx, symbol, timeframe, count)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch bars", err, "symbol", symbol, "timeframe", timeframe)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Bars fetched", "symbol", symbol, "count", len(bars))
	return bars, nil
}

func (ob *observableBroker) AccountInfo(ctx context.Context) (types.AccountInfo, error) {
	ctx, span := trace.StartSpan(ctx, "broker.AccountInfo")
	defer span.End()

	info, err := ob.broker.AccountInfo(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch account info", err)
		return types.AccountInfo{}, err
	}
	return info, nil
}

func (ob *observableBroker) SymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error) {
	ctx, span := trace.StartSpan(ctx, "broker.SymbolInfo")
	defer span.End()

	info, err := ob.broker.SymbolInfo(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch symbol info", err, "symbol", symbol)
		return types.SymbolInfo{}, err
	}
	return info, nil
}

func (ob *observableBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing order",
		"symbol", req.Symbol,
		"direction", req.Direction,
		"volume", req.Volume,
		"stop_loss", req.StopLoss,
		"take_profit", req.TakeProfit,
	)

	resp, err := ob.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place order", err, "symbol", req.Symbol, "volume", req.Volume)
		return types.OrderResp{}, err
	}

	logger.InfoSkip(ctx, 1, "Order placed", "symbol", req.Symbol, "order_id", resp.OrderID, "status", resp.Status)
	return resp, nil
}

func (ob *observableBroker) Start(ctx context.Context, symbols []string) error {
	ctx, span := trace.StartSpan(ctx, "broker.Start")
	defer span.End()

	if err := ob.broker.Start(ctx, symbols); err != nil {
		return fmt.Errorf("broker start failed: %w", err)
	}
	logger.InfoSkip(ctx, 1, "Broker started", "symbols", symbols)
	return nil
}

func (ob *observableBroker) Stop(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "broker.Stop")
	defer span.End()

	ob.broker.Stop(ctx)
	logger.InfoSkip(ctx, 1, "Broker stopped")
}
