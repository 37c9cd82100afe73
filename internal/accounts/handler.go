package accounts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

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
	list, err := h.service.List(r.Context(), owner)
	if err != nil {
		h.logger.Error("list accounts failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]accountJSON, 0, len(list))
	for _, a := range list {
		out = append(out, accountResponse(a))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	owner := shared.OwnerFromContext(r.Context())
	account, err := h.service.Get(r.Context(), owner, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, accountResponse(account))
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	owner := shared.OwnerFromContext(r.Context())
	balance, err := h.service.GetBalance(r.Context(), owner, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	owner := shared.OwnerFromContext(r.Context())
	account, err := h.service.Create(r.Context(), owner, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, accountResponse(account))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	owner := shared.OwnerFromContext(r.Context())
	if err := h.service.Delete(r.Context(), owner, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type accountJSON struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	OpeningAmount float64 `json:"opening_amount"`
	ClosingAmount float64 `json:"closing_amount"`
	GroupID       int64   `json:"group_id"`
}

func accountResponse(a MasterAccount) accountJSON {
	return accountJSON{
		ID:            a.ID,
		Name:          a.Name,
		OpeningAmount: a.OpeningAmount,
		ClosingAmount: a.ClosingAmount,
		GroupID:       a.GroupID,
	}
}
