package posting

import (
	"log/slog"
	"net/http"

	"github.com/ifinance-app/ifinance/internal/platform/httpx"
	"github.com/ifinance-app/ifinance/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	owner := shared.OwnerFromContext(r.Context())
	history, err := h.service.List(r.Context(), owner)
	if err != nil {
		h.logger.Error("list transactions failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if history == nil {
		history = []TransactionSummary{}
	}
	httpx.JSON(w, http.StatusOK, history)
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	owner := shared.OwnerFromContext(r.Context())
	txn, err := h.service.Post(r.Context(), owner, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("transaction posted",
		slog.Int64("transaction_id", txn.ID),
		slog.Int64("owner_id", owner),
		slog.Float64("amount", req.Amount))
	httpx.JSON(w, http.StatusCreated, transactionResponse(txn))
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	owner := shared.OwnerFromContext(r.Context())
	results, err := h.service.Reconcile(r.Context(), owner)
	if err != nil {
		h.logger.Error("reconcile failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	balanced := true
	for _, res := range results {
		if !res.Balanced() {
			balanced = false
			break
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"balanced": balanced,
		"accounts": results,
	})
}

type lineJSON struct {
	DebitAccountID  int64   `json:"debit_account_id"`
	CreditAccountID int64   `json:"credit_account_id"`
	DebitedAmount   float64 `json:"debited_amount"`
	CreditedAmount  float64 `json:"credited_amount"`
	Comment         string  `json:"comment,omitempty"`
}

type transactionJSON struct {
	ID          int64      `json:"id"`
	Ref         string     `json:"ref"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Lines       []lineJSON `json:"lines"`
}

func transactionResponse(t Transaction) transactionJSON {
	out := transactionJSON{
		ID:          t.ID,
		Ref:         t.Ref.String(),
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, lineJSON{
			DebitAccountID:  l.DebitAccountID,
			CreditAccountID: l.CreditAccountID,
			DebitedAmount:   l.DebitedAmount,
			CreditedAmount:  l.CreditedAmount,
			Comment:         l.Comment,
		})
	}
	return out
}
