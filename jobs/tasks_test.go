package jobs

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifinance-app/ifinance/internal/posting"
)

type fakeAuditor struct {
	results map[int64][]posting.ReconcileResult
}

func (f *fakeAuditor) Owners(context.Context) ([]int64, error) {
	out := make([]int64, 0, len(f.results))
	for id := range f.results {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeAuditor) Reconcile(_ context.Context, ownerID int64) ([]posting.ReconcileResult, error) {
	return f.results[ownerID], nil
}

func runIntegrity(t *testing.T, auditor *fakeAuditor, payload LedgerIntegrityPayload) string {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	task, err := NewLedgerIntegrityTask(payload)
	require.NoError(t, err)
	handler := NewLedgerIntegrityHandler(auditor, logger)
	require.NoError(t, handler(context.Background(), task))
	return buf.String()
}

func TestIntegrityHandlerLogsDrift(t *testing.T) {
	auditor := &fakeAuditor{results: map[int64][]posting.ReconcileResult{
		7: {
			{AccountID: 1, Name: "Checking", ClosingAmount: 842, ExpectedClosing: 800, Drift: 42},
			{AccountID: 2, Name: "Rent", ClosingAmount: 200, ExpectedClosing: 200, Drift: 0},
		},
	}}

	out := runIntegrity(t, auditor, LedgerIntegrityPayload{OwnerID: 7})

	assert.Contains(t, out, "ledger drift detected")
	assert.Contains(t, out, "account_id=1")
	assert.NotContains(t, out, "account_id=2")
}

func TestIntegrityHandlerSweepsAllOwnersWhenUnscoped(t *testing.T) {
	auditor := &fakeAuditor{results: map[int64][]posting.ReconcileResult{
		7: {{AccountID: 1, Name: "Checking", ClosingAmount: 100, ExpectedClosing: 100}},
		8: {{AccountID: 9, Name: "Savings", ClosingAmount: 50, ExpectedClosing: 50}},
	}}

	out := runIntegrity(t, auditor, LedgerIntegrityPayload{})

	assert.Contains(t, out, "owner_id=7")
	assert.Contains(t, out, "owner_id=8")
	assert.NotContains(t, out, "drift detected")
}

func TestIntegrityHandlerSkipsRetryOnBadPayload(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	handler := NewLedgerIntegrityHandler(&fakeAuditor{}, logger)

	err := handler(context.Background(), asynq.NewTask(TaskTypeLedgerIntegrity, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
