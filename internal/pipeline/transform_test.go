package pipeline

import (
	"encoding/json"
	"testing"

	"catalog-export/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://online.metro-cc.ru"

func decodeProducts(t *testing.T, raw string) []model.Product {
	t.Helper()
	var products []model.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &products))
	return products
}

func TestBuildRows_TeaExample(t *testing.T) {
	products := decodeProducts(t, `[
		{"id":1,"name":"Tea","url":"/p/1","manufacturer":{"name":"Brand"},
		 "stocks":[{"value":5,"prices":{"price":100,"old_price":150}}]}
	]`)

	rows := BuildRows(products, baseURL)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Row{
		ProductID:    "1",
		Name:         "Tea",
		URL:          "https://online.metro-cc.ru/p/1",
		RegularPrice: "150",
		PromoPrice:   "100",
		Brand:        "Brand",
	}, rows[0])
}

func TestBuildRows_FiltersAndKeepsOrder(t *testing.T) {
	products := decodeProducts(t, `[
		{"id":10,"name":"a","url":"/a","stocks":[{"value":1,"prices":{"price":10}}]},
		{"id":2,"stocks":[{"value":0}]},
		{"id":11,"name":"b","url":"/b","stocks":[{"value":3,"prices":{"price":20,"old_price":null}}]},
		{"id":12,"name":"c","url":"/c","stocks":[]},
		{"id":13,"name":"d","url":"/d"},
		{"id":14,"name":"e","url":"/e","stocks":[{"value":-1,"prices":{"price":5}}]},
		{"id":15,"name":"f","url":"/f","stocks":[{"value":7,"prices":{"price":30,"old_price":45}}]}
	]`)

	rows := BuildRows(products, baseURL)
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ProductID)
	}
	assert.Equal(t, []string{"10", "11", "15"}, ids)
}

func TestToRow_Pricing(t *testing.T) {
	products := decodeProducts(t, `[
		{"id":1,"stocks":[{"value":1,"prices":{"price":100,"old_price":150}}]},
		{"id":2,"stocks":[{"value":1,"prices":{"price":99.5,"old_price":null}}]},
		{"id":3,"stocks":[{"value":1,"prices":{"price":80}}]},
		{"id":4,"stocks":[{"value":1}]}
	]`)

	cases := []struct {
		regular, promo string
	}{
		{"150", "100"},
		{"99.5", ""},
		{"80", ""},
		{"", ""},
	}
	for i, c := range cases {
		row := ToRow(products[i], baseURL)
		assert.Equal(t, c.regular, row.RegularPrice, "product %s", row.ProductID)
		assert.Equal(t, c.promo, row.PromoPrice, "product %s", row.ProductID)
	}
}

func TestToRow_URLAndDefaults(t *testing.T) {
	row := ToRow(model.Product{ID: "5"}, baseURL)
	assert.Equal(t, baseURL, row.URL)
	assert.Equal(t, "", row.Name)
	assert.Equal(t, "", row.Brand)

	row = ToRow(model.Product{ID: "6", URL: "/catalog/chay/6"}, baseURL)
	assert.Equal(t, baseURL+"/catalog/chay/6", row.URL)
}

func TestBuildRows_Empty(t *testing.T) {
	rows := BuildRows(nil, baseURL)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
