package chart

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

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("list categories failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categoriesResponse(cats))
}

func (h *Handler) ListTree(w http.ResponseWriter, r *http.Request) {
	owner := shared.OwnerFromContext(r.Context())
	sortByName := r.URL.Query().Get("sort") == "name"
	roots, err := h.service.ListTree(r.Context(), owner, sortByName)
	if err != nil {
		h.logger.Error("list group tree failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, treeResponse(roots))
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	owner := shared.OwnerFromContext(r.Context())
	group, err := h.service.CreateGroup(r.Context(), owner, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, groupResponse(group))
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid group id")
		return
	}
	var req UpdateGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	owner := shared.OwnerFromContext(r.Context())
	group, err := h.service.UpdateGroup(r.Context(), owner, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, groupResponse(group))
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid group id")
		return
	}
	owner := shared.OwnerFromContext(r.Context())
	if err := h.service.DeleteGroup(r.Context(), owner, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type groupJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
	ParentID   *int64 `json:"parent_id,omitempty"`
}

type treeNodeJSON struct {
	groupJSON
	CategoryName string         `json:"category_name,omitempty"`
	Children     []treeNodeJSON `json:"children,omitempty"`
}

func categoriesResponse(cats []AccountCategory) []categoryJSON {
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryJSON{ID: c.ID, Name: c.Name, Type: string(c.Type)})
	}
	return out
}

func groupResponse(g Group) groupJSON {
	return groupJSON{ID: g.ID, Name: g.Name, CategoryID: g.CategoryID, ParentID: g.ParentID}
}

func treeResponse(nodes []*TreeNode) []treeNodeJSON {
	out := make([]treeNodeJSON, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, treeNodeJSON{
			groupJSON:    groupResponse(n.Group),
			CategoryName: n.CategoryName,
			Children:     treeResponse(n.Children),
		})
	}
	return out
}
