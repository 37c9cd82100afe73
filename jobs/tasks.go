package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/ifinance-app/ifinance/internal/posting"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLedgerIntegrity sweeps every owner's ledger and reports drift
	// between materialized and recomputed closing amounts.
	TaskTypeLedgerIntegrity = "ledger:integrity"
)

// LedgerAuditor is the slice of the posting engine the integrity sweep needs.
// *posting.Service satisfies it.
type LedgerAuditor interface {
	Owners(ctx context.Context) ([]int64, error)
	Reconcile(ctx context.Context, ownerID int64) ([]posting.ReconcileResult, error)
}

// LedgerIntegrityPayload scopes a sweep to one owner; a zero OwnerID sweeps
// every owner.
type LedgerIntegrityPayload struct {
	OwnerID int64 `json:"owner_id"`
}

// NewLedgerIntegrityTask constructs an Asynq task.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLedgerIntegrity, data), nil
}

// NewLedgerIntegrityHandler processes TaskTypeLedgerIntegrity tasks. Drift is
// logged, never repaired; repairs require a human decision.
func NewLedgerIntegrityHandler(auditor LedgerAuditor, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LedgerIntegrityPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		owners := []int64{payload.OwnerID}
		if payload.OwnerID == 0 {
			var err error
			owners, err = auditor.Owners(ctx)
			if err != nil {
				return err
			}
		}
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for _, owner := range owners {
			g.Go(func() error {
				results, err := auditor.Reconcile(ctx, owner)
				if err != nil {
					return err
				}
				drifted := 0
				for _, res := range results {
					if res.Balanced() {
						continue
					}
					drifted++
					logger.Warn("ledger drift detected",
						slog.Int64("owner_id", owner),
						slog.Int64("account_id", res.AccountID),
						slog.String("account", res.Name),
						slog.Float64("closing", res.ClosingAmount),
						slog.Float64("expected", res.ExpectedClosing),
						slog.Float64("drift", res.Drift))
				}
				if drifted == 0 {
					logger.Info("ledger integrity ok", slog.Int64("owner_id", owner))
				}
				return nil
			})
		}
		return g.Wait()
	}
}
