package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryLimit(t *testing.T) {
	cases := map[string]int{
		"/":             50,
		"/?limit=10":    10,
		"/?limit=0":     50,
		"/?limit=abc":   50,
		"/?limit=10000": 200,
	}
	for url, want := range cases {
		assert.Equal(t, want, QueryLimit(httptest.NewRequest(http.MethodGet, url, nil), 50, 200), url)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","stock":5}`))
	assert.ErrorIs(t, Decode(r, &v), ErrInvalidBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	assert.NoError(t, Decode(r, &v))
	assert.Equal(t, "x", v.Name)
}
