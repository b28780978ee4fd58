package apperr

import (
	"net/http"

	"github.com/fekuna/omnipos-backoffice/pkg/httpx"
	"github.com/fekuna/omnipos-backoffice/pkg/i18n"
)

func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WriteHTTP writes err as a JSON error body, localized with the request's
// Accept-Language header.
func WriteHTTP(w http.ResponseWriter, r *http.Request, tr *i18n.Translator, err error) {
	lang := r.Header.Get("Accept-Language")

	e, ok := As(err)
	if !ok {
		httpx.JSON(w, http.StatusInternalServerError, errorBody{
			Error: tr.Translate(CodeInternal, "internal error", nil, lang),
			Code:  CodeInternal,
		})
		return
	}

	httpx.JSON(w, HTTPStatus(e.Kind), errorBody{
		Error:   tr.Translate(e.Code, e.Message, e.Fields, lang),
		Code:    e.Code,
		Details: e.Fields,
	})
}
