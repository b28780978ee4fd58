package search

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/product"
	"github.com/fekuna/omnipos-backoffice/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/search"
	"github.com/shopspring/decimal"
)

const IndexName = "products"

const mapping = `{
	"mappings": {
		"properties": {
			"store_id": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"price": { "type": "double" },
			"is_active": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

// document is what gets indexed. Stock is left out: it changes with every
// sale and reads always come back from the database.
type document struct {
	StoreID     string          `json:"store_id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	SKU         *string         `json:"sku,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   string          `json:"created_at"`
}

type ESIndexer struct {
	client *search.Client
	once   sync.Once
}

var _ product.Indexer = (*ESIndexer)(nil)

func NewESIndexer(client *search.Client) *ESIndexer {
	return &ESIndexer{client: client}
}

// ensureIndex creates the index on first use. Failures are left to the
// following index call to report.
func (i *ESIndexer) ensureIndex(ctx context.Context) {
	i.once.Do(func() {
		_ = i.client.CreateIndex(ctx, IndexName, mapping)
	})
}

func (i *ESIndexer) IndexProduct(ctx context.Context, p *model.Product) error {
	i.ensureIndex(ctx)
	return i.client.Index(ctx, IndexName, p.ID, document{
		StoreID:     p.StoreID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Price:       p.Price,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (i *ESIndexer) DeleteProduct(ctx context.Context, id string) error {
	return i.client.Delete(ctx, IndexName, id)
}

func (i *ESIndexer) SearchProducts(ctx context.Context, f *dto.ProductFilters) ([]string, int, error) {
	res, err := i.client.Search(ctx, IndexName, Query(f))
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, res.Hits.Total.Value, nil
}

// Query builds the search body: a fuzzy match on name, description and sku,
// filtered to the store and the optional category and active flag.
func Query(f *dto.ProductFilters) map[string]interface{} {
	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"store_id": f.StoreID}},
	}
	if f.CategoryID != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"category_id": f.CategoryID}})
	}
	if f.IsActive != nil {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"is_active": *f.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"multi_match": map[string]interface{}{
							"query":     f.Search,
							"fields":    []string{"name^3", "sku^2", "description"},
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": filters,
			},
		},
		"_source": false,
	}
	if f.PageSize > 0 {
		q["from"] = (f.Page - 1) * f.PageSize
		q["size"] = f.PageSize
	}
	return q
}
