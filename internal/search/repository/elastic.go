package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"product-catalogue/internal/products"
	"product-catalogue/internal/search"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// searchPageSize bounds one search request. FindByParams pages through
// every match with search_after on the sku sort.
const searchPageSize = 100

// name and description use the wildcard type, which indexes values of any
// length for case-insensitive infix queries.
const indexMapping = `{
	"mappings": {
		"properties": {
			"id":          {"type": "keyword"},
			"version":     {"type": "integer"},
			"sku":         {"type": "keyword"},
			"name":        {"type": "wildcard"},
			"description": {"type": "wildcard"},
			"image_url":   {"type": "keyword", "index": false}
		}
	}
}`

// ElasticRepository stores products as documents whose id is the sku.
type ElasticRepository struct {
	client *elasticsearch.Client
	index  string
}

func NewElastic(client *elasticsearch.Client, index string) *ElasticRepository {
	return &ElasticRepository{client: client, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (r *ElasticRepository) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{r.index}}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("check index %q: %w", r.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("create index %q: %w", r.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %q: %s", r.index, res.String())
	}
	return nil
}

func (r *ElasticRepository) Upsert(ctx context.Context, product products.Product) error {
	body, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", product.SKU, err)
	}

	res, err := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: product.SKU,
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("index %q: %w", product.SKU, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index %q: %s", product.SKU, res.String())
	}
	return nil
}

func (r *ElasticRepository) Delete(ctx context.Context, sku string) error {
	res, err := esapi.DeleteRequest{
		Index:      r.index,
		DocumentID: sku,
		Refresh:    "wait_for",
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("delete %q: %w", sku, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %q: %s", sku, res.String())
	}
	return nil
}

func (r *ElasticRepository) FindBySku(ctx context.Context, sku string, onNotFound error) (products.Product, error) {
	res, err := esapi.GetRequest{Index: r.index, DocumentID: sku}.Do(ctx, r.client)
	if err != nil {
		return products.Product{}, fmt.Errorf("get %q: %w", sku, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return products.Product{}, onNotFound
	}
	if res.IsError() {
		return products.Product{}, fmt.Errorf("get %q: %s", sku, res.String())
	}

	var doc struct {
		Source products.Product `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return products.Product{}, fmt.Errorf("decode %q: %w", sku, err)
	}
	return doc.Source, nil
}

func (r *ElasticRepository) FindByParams(ctx context.Context, params search.Params, onNotFound error) ([]products.Product, error) {
	var (
		found []products.Product
		after string
	)
	for {
		page, err := r.searchPage(ctx, params, after)
		if err != nil {
			return nil, err
		}
		found = append(found, page...)
		if len(page) < searchPageSize {
			break
		}
		after = page[len(page)-1].SKU
	}

	if len(found) == 0 {
		return nil, onNotFound
	}
	return found, nil
}

func (r *ElasticRepository) searchPage(ctx context.Context, params search.Params, after string) ([]products.Product, error) {
	var query bytes.Buffer
	if err := json.NewEncoder(&query).Encode(elasticQuery(params, after)); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  &query,
	}.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.String())
	}
	return decodeHits(res.Body)
}

func (r *ElasticRepository) Health() error {
	res, err := r.client.Ping()
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping: %s", res.String())
	}
	return nil
}

// elasticQuery builds one page of the filter query. after is the last sku of
// the previous page, empty for the first one.
func elasticQuery(params search.Params, after string) map[string]any {
	filters := []map[string]any{}
	if params.SKU != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"sku": params.SKU}})
	}
	if params.Name != "" {
		filters = append(filters, wildcard("name", params.Name))
	}
	if params.Description != "" {
		filters = append(filters, wildcard("description", params.Description))
	}

	query := map[string]any{
		"size":  searchPageSize,
		"sort":  []map[string]any{{"sku": "asc"}},
		"query": map[string]any{"bool": map[string]any{"filter": filters}},
	}
	if after != "" {
		query["search_after"] = []string{after}
	}
	return query
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func wildcard(field, value string) map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			field: map[string]any{
				"value":            "*" + wildcardEscaper.Replace(value) + "*",
				"case_insensitive": true,
			},
		},
	}
}

func decodeHits(body io.Reader) ([]products.Product, error) {
	var resp struct {
		Hits struct {
			Hits []struct {
				Source products.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}

	found := make([]products.Product, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		found = append(found, hit.Source)
	}
	return found, nil
}
