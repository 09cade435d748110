package engine

import (
	"context"
	"fmt"

	"trade-advisor/internal/idea"
	"trade-advisor/internal/interfaces"
	"trade-advisor/internal/logger"
	"trade-advisor/internal/trace"
	"trade-advisor/internal/types"
)

// UnsafeIdeaError reports a trade idea that failed pre-submission safety
// checks. The idea stays approved; it is never sent to the broker.
type UnsafeIdeaError struct {
	ID     string
	Reason string
}

func (e *UnsafeIdeaError) Error() string {
	return fmt.Sprintf("trade idea %s failed safety check: %s", e.ID, e.Reason)
}

// Executor owns the approval workflow and the handoff of approved ideas to
// the broker. In SEMI_AUTO mode every idea waits for a human; FULL_AUTO
// approves and executes pending ideas itself.
type Executor struct {
	brk  interfaces.Broker
	book *idea.Book
	mode string
}

func NewExecutor(brk interfaces.Broker, book *idea.Book, mode string) *Executor {
	return &Executor{brk: brk, book: book, mode: mode}
}

// Approve moves a pending idea to approved.
func (x *Executor) Approve(ctx context.Context, id string) (types.TradeIdea, error) {
	ti, err := x.book.Approve(id)
	if err != nil {
		return types.TradeIdea{}, err
	}
	logger.Risk(ctx, ti.Symbol, "IDEA_APPROVED", "idea_id", id, "confidence", ti.Confidence)
	return ti, nil
}

// Reject moves a pending idea to rejected.
func (x *Executor) Reject(ctx context.Context, id string) (types.TradeIdea, error) {
	ti, err := x.book.Reject(id)
	if err != nil {
		return types.TradeIdea{}, err
	}
	logger.Risk(ctx, ti.Symbol, "IDEA_REJECTED", "idea_id", id)
	return ti, nil
}

// Cancel cancels a pending or approved idea.
func (x *Executor) Cancel(ctx context.Context, id string) (types.TradeIdea, error) {
	ti, err := x.book.Cancel(id)
	if err != nil {
		return types.TradeIdea{}, err
	}
	logger.Risk(ctx, ti.Symbol, "IDEA_CANCELLED", "idea_id", id)
	return ti, nil
}

// Execute submits an approved idea to the broker and marks it executed.
// The idea is claimed atomically first, so a concurrent Execute for the
// same idea is rejected instead of double-submitting. An order failure
// releases the claim and leaves the idea approved so the operator can
// retry or cancel it.
func (x *Executor) Execute(ctx context.Context, id string) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "executor.Execute")
	defer span.End()

	ti, err := x.book.Claim(id)
	if err != nil {
		return types.OrderResp{}, err
	}
	defer x.book.Release(id)

	if err := validateForExecution(ti); err != nil {
		return types.OrderResp{}, err
	}

	resp, err := x.brk.PlaceOrder(ctx, types.OrderReq{
		Symbol:     ti.Symbol,
		Direction:  ti.Direction,
		Volume:     ti.Volume,
		StopLoss:   ti.StopLoss,
		TakeProfit: ti.TakeProfit,
		Comment:    "idea:" + ti.ID,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Order submission failed, idea stays approved", err, "idea_id", id, "symbol", ti.Symbol)
		return types.OrderResp{}, err
	}

	if _, err := x.book.MarkExecuted(id); err != nil {
		return resp, err
	}
	logger.Risk(ctx, ti.Symbol, "IDEA_EXECUTED",
		"idea_id", id,
		"order_id", resp.OrderID,
		"volume", ti.Volume,
		"stop_loss", ti.StopLoss,
		"take_profit", ti.TakeProfit,
	)
	return resp, nil
}

// HandlePending drives the mode policy over all pending ideas: FULL_AUTO
// approves and executes each one, SEMI_AUTO leaves them for the operator.
// Returns the number of ideas executed.
func (x *Executor) HandlePending(ctx context.Context) int {
	if x.mode != "FULL_AUTO" {
		return 0
	}
	executed := 0
	for _, ti := range x.book.Pending() {
		if _, err := x.Approve(ctx, ti.ID); err != nil {
			logger.ErrorWithErr(ctx, "Auto-approval failed", err, "idea_id", ti.ID)
			continue
		}
		if _, err := x.Execute(ctx, ti.ID); err != nil {
			logger.ErrorWithErr(ctx, "Auto-execution failed", err, "idea_id", ti.ID)
			continue
		}
		executed++
	}
	return executed
}

// validateForExecution is the last gate before money moves.
func validateForExecution(ti types.TradeIdea) error {
	if ti.Volume <= 0 {
		return &UnsafeIdeaError{ID: ti.ID, Reason: "volume must be positive"}
	}
	if ti.StopLoss == 0 || ti.TakeProfit == 0 {
		return &UnsafeIdeaError{ID: ti.ID, Reason: "missing stop or target level"}
	}
	switch ti.Direction {
	case types.Long:
		if !(ti.StopLoss < ti.EntryPrice && ti.EntryPrice < ti.TakeProfit) {
			return &UnsafeIdeaError{ID: ti.ID, Reason: "long levels out of order"}
		}
	case types.Short:
		if !(ti.TakeProfit < ti.EntryPrice && ti.EntryPrice < ti.StopLoss) {
			return &UnsafeIdeaError{ID: ti.ID, Reason: "short levels out of order"}
		}
	default:
		return &UnsafeIdeaError{ID: ti.ID, Reason: "unknown direction"}
	}
	return nil
}
