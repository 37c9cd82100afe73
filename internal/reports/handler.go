package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/ifinance-app/ifinance/internal/platform/httpx"
	"github.com/ifinance-app/ifinance/internal/shared"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	h.ranged(w, r, "trial_balance", h.svc.TrialBalance)
}

func (h *Handler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	h.ranged(w, r, "profit_loss", h.svc.ProfitLoss)
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDate(r.URL.Query().Get("as_of"))
	if err != nil {
		httpx.ValidationProblem(w, map[string]string{"as_of": "must be a date in YYYY-MM-DD form"})
		return
	}
	report, buildErr := h.svc.BalanceSheet(r.Context(), shared.OwnerFromContext(r.Context()), asOf)
	if buildErr != nil {
		httpx.RespondError(w, buildErr)
		return
	}
	respond(w, r, "balance_sheet", report)
}

// CashFlow is reserved. The endpoint exists so clients can discover it, but
// no statement is produced yet.
func (h *Handler) CashFlow(w http.ResponseWriter, r *http.Request) {
	httpx.Problem(w, http.StatusNotImplemented, "Not Implemented", "cash flow statement is not available yet")
}

func (h *Handler) ranged(w http.ResponseWriter, r *http.Request, name string, build func(ctx context.Context, ownerID int64, from, to *time.Time) (Report, error)) {
	q := r.URL.Query()
	fields := map[string]string{}
	from, err := parseDate(q.Get("from"))
	if err != nil {
		fields["from"] = "must be a date in YYYY-MM-DD form"
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		fields["to"] = "must be a date in YYYY-MM-DD form"
	}
	if len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}
	report, buildErr := build(r.Context(), shared.OwnerFromContext(r.Context()), from, to)
	if buildErr != nil {
		httpx.RespondError(w, buildErr)
		return
	}
	respond(w, r, name, report)
}

func respond(w http.ResponseWriter, r *http.Request, name string, report Report) {
	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, name, report)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func writeCSV(w http.ResponseWriter, name string, report Report) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"_"+report.To.Format("2006-01-02")+".csv"))
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"account", "category", "debit", "credit"})
	for _, line := range report.Lines {
		_ = cw.Write([]string{line.AccountName, line.Category, money(line.Debit), money(line.Credit)})
	}
	_ = cw.Write([]string{"TOTAL", "", money(report.TotalDebit), money(report.TotalCredit)})
	cw.Flush()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
