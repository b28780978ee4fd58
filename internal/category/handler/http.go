package handler

import (
	"net/http"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/category"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/httpx"
	"github.com/fekuna/omnipos-backoffice/pkg/i18n"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPHandler struct {
	uc     category.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewHTTPHandler(uc category.UseCase, tr *i18n.Translator, log logger.ZapLogger) *HTTPHandler {
	return &HTTPHandler{uc: uc, tr: tr, logger: log}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/categories", h.list).Methods(http.MethodGet)
	r.HandleFunc("/categories", h.create).Methods(http.MethodPost)
	r.HandleFunc("/categories/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/categories/{id}", h.delete).Methods(http.MethodDelete)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("category request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	apperr.WriteHTTP(w, r, h.tr, err)
}

func (h *HTTPHandler) list(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	cats, count, err := h.uc.ListCategories(r.Context(), rc, &dto.CategoryFilters{
		Search:   r.URL.Query().Get("search"),
		Page:     httpx.QueryInt(r, "page", 1),
		PageSize: httpx.QueryInt(r, "page_size", 0),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, backofficev1.ListCategoriesResponse{Categories: cats, Total: count})
}

func (h *HTTPHandler) create(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req backofficev1.CreateCategoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, r, apperr.ErrInvalidBody)
		return
	}

	cat, err := h.uc.CreateCategory(r.Context(), rc, &dto.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cat)
}

func (h *HTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	cat, err := h.uc.GetCategory(r.Context(), rc, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cat)
}

func (h *HTTPHandler) update(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req backofficev1.UpdateCategoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.writeError(w, r, apperr.ErrInvalidBody)
		return
	}

	cat, err := h.uc.UpdateCategory(r.Context(), rc, &dto.UpdateCategoryInput{
		ID:          mux.Vars(r)["id"],
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cat)
}

func (h *HTTPHandler) delete(w http.ResponseWriter, r *http.Request) {
	rc, err := auth.FromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.uc.DeleteCategory(r.Context(), rc, mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
