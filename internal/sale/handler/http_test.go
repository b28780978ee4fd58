package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/events"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/inventorytest"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale/usecase"
	"github.com/fekuna/omnipos-backoffice/pkg/i18n"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noReports struct{}

func (noReports) InvalidateReports(context.Context, string) {}

type fixture struct {
	store  *inventorytest.Store
	router *mux.Router
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inventorytest.NewStore()
	p := model.Product{StoreID: "s1", Name: "Keyboard", Price: decimal.NewFromInt(10), Stock: 5, TrackStock: true, IsActive: true}
	p.ID = "a"
	store.AddProduct(p)

	tr, err := i18n.New()
	require.NoError(t, err)
	log := logger.NewNop()
	uc := usecase.NewSaleUseCase(store.SaleRepository(), noReports{}, events.NoopPublisher{}, usecase.Options{}, log)

	verifier := auth.NewJWTVerifier("test-secret")
	token, err := verifier.Issue(auth.RequestContext{StoreID: "s1", UserID: "u1", Role: "CASHIER"}, time.Hour)
	require.NoError(t, err)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(verifier.Middleware(func(w http.ResponseWriter, r *http.Request) {
		apperr.WriteHTTP(w, r, tr, apperr.ErrUnauthenticated)
	}))
	NewHTTPHandler(uc, tr, log).Register(api)

	return &fixture{store: store, router: r, token: token}
}

func (f *fixture) do(method, path, body, lang string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+f.token)
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCommitSaleHTTP(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/sales", `{"items":[{"product_id":"a","quantity":2}],"payment_method":"qr"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var s model.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, model.PaymentQR, s.PaymentMethod)
	assert.Equal(t, "20", s.Total.String())
	assert.Equal(t, 3, f.store.Product("a").Stock)

	rec = f.do(http.MethodGet, "/api/sales/"+s.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/sales?payment_method=CASH", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sales":[]}`, rec.Body.String())
}

func TestCommitSaleHTTPErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   string
		lang   string
		status int
		code   string
		msg    string
	}{
		{"insufficient stock", `{"items":[{"product_id":"a","quantity":6}],"payment_method":"CASH"}`, "es", http.StatusConflict, apperr.CodeInsufficientStock, "Stock insuficiente para Keyboard"},
		{"empty order", `{"items":[],"payment_method":"CASH"}`, "en", http.StatusBadRequest, apperr.CodeEmptyOrder, ""},
		{"unknown field", `{"lines":[]}`, "", http.StatusBadRequest, apperr.CodeInvalidBody, ""},
		{"unknown product", `{"items":[{"product_id":"zz","quantity":1}],"payment_method":"CASH"}`, "", http.StatusNotFound, apperr.CodeProductNotFound, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/api/sales", tc.body, tc.lang)
			assert.Equal(t, tc.status, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["code"])
			if tc.msg != "" {
				assert.Equal(t, tc.msg, body["error"])
			}
		})
	}
	assert.Equal(t, 5, f.store.Product("a").Stock)
}

func TestSalesRequireToken(t *testing.T) {
	f := newFixture(t)
	f.token = "garbage"

	rec := f.do(http.MethodGet, "/api/sales", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
