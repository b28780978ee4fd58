package handler

import (
	"net/http"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/httpx"
	"github.com/fekuna/omnipos-backoffice/pkg/i18n"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPHandler struct {
	uc     inventory.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewHTTPHandler(uc inventory.UseCase, tr *i18n.Translator, log logger.ZapLogger) *HTTPHandler {
	return &HTTPHandler{uc: uc, tr: tr, logger: log}
}

// Register mounts the routes on an authenticated /api router.
func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/stock-movements", h.listMovements).Methods(http.MethodGet)
	r.HandleFunc("/stock-movements", h.adjustStock).Methods(http.MethodPost)
	r.HandleFunc("/stock-movements/verify/{productId}", h.verifyLedger).Methods(http.MethodGet)
	r.HandleFunc("/reports/inventory", h.report).Methods(http.MethodGet)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("inventory request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	apperr.WriteHTTP(w, r, h.tr, err)
}

func (h *HTTPHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	mvs, err := h.uc.ListMovements(r.Context(), rc, &dto.MovementFilters{
		ProductID: q.Get("product_id"),
		Type:      model.MovementType(q.Get("type")),
		Limit:     httpx.QueryInt(r, "limit", 0),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, backofficev1.ListMovementsResponse{Movements: mvs})
}

func (h *HTTPHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req backofficev1.AdjustStockRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, r, apperr.ErrInvalidBody)
		return
	}

	m, err := h.uc.AdjustStock(r.Context(), rc, &dto.AdjustStockInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *HTTPHandler) verifyLedger(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	check, err := h.uc.VerifyLedger(r.Context(), rc, mux.Vars(r)["productId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, check)
}

func (h *HTTPHandler) report(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := BuildReport(r.Context(), h.uc, rc, r.URL.Query().Get("type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}
