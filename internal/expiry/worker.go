package expiry

import (
	"context"
	"time"

	"pantry/internal/inventory"

	"go.uber.org/zap"
)

// Worker periodically scans all inventories and logs ingredients whose
// expiry date has passed. Expiry dates parse as RFC 3339 or plain
// YYYY-MM-DD; unparseable values are skipped.
type Worker struct {
	Store    inventory.Store
	Interval time.Duration
	Log      *zap.Logger
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *Worker) scan(ctx context.Context) {
	invs, err := w.Store.All(ctx)
	if err != nil {
		w.Log.Warn("expiry scan failed", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	for _, inv := range invs {
		for _, it := range inv.Ingredients {
			if it.ExpiryDate == nil {
				continue
			}
			exp, ok := parseExpiry(*it.ExpiryDate)
			if !ok || exp.After(now) {
				continue
			}
			w.Log.Info("ingredient expired",
				zap.Uint64("account_id", inv.AccountID),
				zap.String("ingredient_id", it.ID),
				zap.String("name", it.Name),
				zap.String("expiry_date", *it.ExpiryDate),
			)
		}
	}
}

func parseExpiry(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
