package handler

import (
	"net/http"
	"strconv"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/product"
	"github.com/fekuna/omnipos-backoffice/pkg/httpx"
	"github.com/fekuna/omnipos-backoffice/pkg/i18n"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPHandler struct {
	uc     product.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewHTTPHandler(uc product.UseCase, tr *i18n.Translator, log logger.ZapLogger) *HTTPHandler {
	return &HTTPHandler{uc: uc, tr: tr, logger: log}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/products", h.list).Methods(http.MethodGet)
	r.HandleFunc("/products", h.create).Methods(http.MethodPost)
	r.HandleFunc("/products/search", h.search).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", h.delete).Methods(http.MethodDelete)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("product request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	apperr.WriteHTTP(w, r, h.tr, err)
}

func listRequest(r *http.Request) *backofficev1.ListProductsRequest {
	q := r.URL.Query()
	req := &backofficev1.ListProductsRequest{
		CategoryID: q.Get("category_id"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
		Page:       httpx.QueryInt(r, "page", 1),
		PageSize:   httpx.QueryInt(r, "page_size", 0),
	}
	if v, err := strconv.ParseBool(q.Get("is_active")); err == nil {
		req.IsActive = &v
	}
	return req
}

func (h *HTTPHandler) list(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	products, total, err := h.uc.ListProducts(r.Context(), rc, listFilters(listRequest(r)))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, backofficev1.ListProductsResponse{Products: products, Total: total})
}

func (h *HTTPHandler) search(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	req := listRequest(r)
	if req.Search == "" {
		req.Search = r.URL.Query().Get("q")
	}
	products, total, err := h.uc.SearchProducts(r.Context(), rc, listFilters(req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, backofficev1.ListProductsResponse{Products: products, Total: total})
}

func (h *HTTPHandler) create(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req backofficev1.CreateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, r, apperr.ErrInvalidBody)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), rc, createInput(&req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *HTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.uc.GetProduct(r.Context(), rc, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// update rejects bodies carrying "stock" as unknown fields; stock changes go
// through /stock-movements.
func (h *HTTPHandler) update(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req backofficev1.UpdateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, r, apperr.ErrInvalidBody)
		return
	}

	p, err := h.uc.UpdateProduct(r.Context(), rc, updateInput(mux.Vars(r)["id"], &req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) delete(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.uc.DeleteProduct(r.Context(), rc, mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
