// Package worker runs background jobs against the mock backend.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/flicky/go-storefront/internal/gateway"
)

// OrderSettler periodically promotes pending mock orders to completed after
// a hold time, so a running dev environment behaves like one with a real
// fulfillment pipeline behind it. Opt-in; disabled by default.
type OrderSettler struct {
	store    *gateway.MockStore
	interval time.Duration
	holdFor  time.Duration
	log      *slog.Logger
	done     chan struct{}
}

func NewOrderSettler(store *gateway.MockStore, interval, holdFor time.Duration, log *slog.Logger) *OrderSettler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &OrderSettler{
		store:    store,
		interval: interval,
		holdFor:  holdFor,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (w *OrderSettler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := w.store.SettlePendingBefore(time.Now().Add(-w.holdFor)); n > 0 {
					w.log.Info("settled pending orders", "count", n)
				}
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	w.log.Info("order settler started", "interval", w.interval, "hold_for", w.holdFor)
}

func (w *OrderSettler) Stop() { close(w.done) }
