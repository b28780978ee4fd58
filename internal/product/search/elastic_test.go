package search

import (
	"encoding/json"
	"testing"

	"github.com/fekuna/omnipos-backoffice/internal/product/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryScopesToStore(t *testing.T) {
	active := true
	q := Query(&dto.ProductFilters{StoreID: "s1", CategoryID: "c1", IsActive: &active, Search: "mouse", Page: 3, PageSize: 10})

	body, err := json.Marshal(q)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"query": {"bool": {
			"must": [{"multi_match": {"query": "mouse", "fields": ["name^3", "sku^2", "description"], "fuzziness": "AUTO"}}],
			"filter": [
				{"term": {"store_id": "s1"}},
				{"term": {"category_id": "c1"}},
				{"term": {"is_active": true}}
			]
		}},
		"_source": false,
		"from": 20,
		"size": 10
	}`, string(body))
}

func TestQueryWithoutPaging(t *testing.T) {
	q := Query(&dto.ProductFilters{StoreID: "s1", Search: "x"})
	_, hasFrom := q["from"]
	assert.False(t, hasFrom)
}
