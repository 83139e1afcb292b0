// Package reconciler implements the outbox-draining background poller
// (C5's reconciler half, spec.md §4.5), grounded on order_server's
// handlers/corn.rs. It is the textbook transactional-outbox
// reconciliation loop: the outbox table is the durable intent, dedup is
// by deduction_order_id at the inventory side, and the loop makes
// progress until the outbox is drained.
package reconciler

import (
	"context"
	"time"

	"ecomfleet/pkg/logger"
	"ecomfleet/pkg/metrics"
	"ecomfleet/services/order-svc/internal/repository"
)

// Store is the persistence surface the reconciler polls.
type Store interface {
	ListOutbox(ctx context.Context) ([]repository.OutboxRow, error)
	GetForReconcile(ctx context.Context, orderID int32) (*repository.Order, error)
	CompleteDeduction(ctx context.Context, orderID int32, success bool, payTimeMillis int64) error
}

// InventoryClient is the downstream RPC surface each retry uses.
type InventoryClient interface {
	Deduct(ctx context.Context, inventoryID, count, orderID int32) (success bool, err error)
}

// Reconciler drains the outbox on a fixed interval. None of its failures
// are fatal (spec.md §7): discovery failure, RPC timeout/refusal, and
// transient database failure in Phase B are all logged and retried on
// the next tick.
type Reconciler struct {
	store     Store
	inventory InventoryClient
	interval  time.Duration
}

// New builds a Reconciler. interval <= 0 defaults to 10s (spec.md §4.5).
func New(store Store, inventory InventoryClient, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Reconciler{store: store, inventory: inventory, interval: interval}
}

// Run polls until ctx is cancelled. It is intended to be launched once,
// in its own goroutine, at process startup, and is never cancelled
// except by process shutdown (spec.md §5).
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info("outbox reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping outbox reconciler")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Reconciler) tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.Get().ReconcilerTickDuration.Observe(time.Since(start).Seconds())
	}()

	rows, err := r.store.ListOutbox(ctx)
	if err != nil {
		logger.Log.Warn("reconciler failed to list outbox", "error", err)
		return
	}
	metrics.Get().OutboxDepth.Set(float64(len(rows)))

	for _, row := range rows {
		if r.retry(ctx, row) {
			metrics.Get().ReconcilerRowsDrained.Inc()
		}
	}
}

// retry attempts Phase B for one outbox row. It returns whether the row
// was drained (both the RPC and the completion write succeeded).
func (r *Reconciler) retry(ctx context.Context, row repository.OutboxRow) bool {
	order, err := r.store.GetForReconcile(ctx, row.OrderID)
	if err != nil {
		logger.Log.Warn("reconciler failed to load order for outbox row", "order_id", row.OrderID, "error", err)
		return false
	}

	success, err := r.inventory.Deduct(ctx, order.ItemID, order.Count, order.ID)
	if err != nil {
		logger.Log.Warn("reconciler deduction RPC did not complete, will retry next tick",
			"order_id", order.ID, "error", err)
		return false
	}

	if err := r.store.CompleteDeduction(ctx, order.ID, success, time.Now().UnixMilli()); err != nil {
		logger.Log.Warn("reconciler completion write failed, will retry next tick",
			"order_id", order.ID, "error", err)
		return false
	}
	return true
}
