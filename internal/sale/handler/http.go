package handler

import (
	"net/http"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/httpx"
	"github.com/fekuna/omnipos-backoffice/pkg/i18n"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPHandler struct {
	uc     sale.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewHTTPHandler(uc sale.UseCase, tr *i18n.Translator, log logger.ZapLogger) *HTTPHandler {
	return &HTTPHandler{uc: uc, tr: tr, logger: log}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/sales", h.list).Methods(http.MethodGet)
	r.HandleFunc("/sales", h.commit).Methods(http.MethodPost)
	r.HandleFunc("/sales/{id}", h.get).Methods(http.MethodGet)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("sale request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	apperr.WriteHTTP(w, r, h.tr, err)
}

func (h *HTTPHandler) commit(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req backofficev1.CommitSaleRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, r, apperr.ErrInvalidBody)
		return
	}

	s, err := h.uc.CommitSale(r.Context(), rc, commitInput(&req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *HTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	s, err := h.uc.GetSale(r.Context(), rc, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *HTTPHandler) list(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sales, err := h.uc.ListSales(r.Context(), rc, &dto.SaleFilters{
		PaymentMethod: model.PaymentMethod(r.URL.Query().Get("payment_method")),
		Limit:         httpx.QueryInt(r, "limit", 0),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, backofficev1.ListSalesResponse{Sales: sales})
}
