package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"catalog-export/internal/config"
	"catalog-export/internal/model"
	"catalog-export/internal/obs"

	"github.com/go-faster/errors"
)

var (
	// ErrQueryMissing is returned when the query template has no query text.
	ErrQueryMissing = errors.New("query document has no query")
	// ErrTotalMissing is returned when the response lacks data.category.total.
	ErrTotalMissing = errors.New("response has no category total")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// ------------------- Query Loader -------------------

// LoadQuery reads a GraphQL query document from a JSON file.
func LoadQuery(path string) (model.QueryDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.QueryDocument{}, errors.Wrap(err, "open query file")
	}
	defer file.Close()

	var doc model.QueryDocument
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return model.QueryDocument{}, errors.Wrapf(err, "decode query file %s", path)
	}
	if strings.TrimSpace(doc.Query) == "" {
		return model.QueryDocument{}, errors.Wrap(ErrQueryMissing, path)
	}
	return doc, nil
}

// ------------------- Catalog API -------------------

// Fetcher is the catalog API as seen by Run.
type Fetcher interface {
	FetchTotal(ctx context.Context, doc model.QueryDocument) (int, error)
	FetchProducts(ctx context.Context, doc model.QueryDocument) ([]model.Product, error)
}

// Client posts category queries to the catalog GraphQL endpoint.
type Client struct {
	URL     string
	Headers map[string]string
	HTTP    *http.Client
}

// NewClient builds a Client from the API settings in cfg.
func NewClient(cfg config.Config) *Client {
	return &Client{
		URL:     cfg.APIURL,
		Headers: cfg.Headers,
		HTTP:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type graphError struct {
	Message string `json:"message"`
}

type categoryResponse struct {
	Data *struct {
		Category *struct {
			Total    *int              `json:"total"`
			Products []json.RawMessage `json:"products"`
		} `json:"category"`
	} `json:"data"`
	Errors []graphError `json:"errors"`
}

func (r *categoryResponse) graphErr() error {
	if len(r.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return errors.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
}

// FetchTotal asks for an empty page and returns data.category.total.
func (c *Client) FetchTotal(ctx context.Context, doc model.QueryDocument) (int, error) {
	resp, err := c.post(ctx, doc)
	if err != nil {
		return 0, err
	}
	if resp.Data == nil || resp.Data.Category == nil || resp.Data.Category.Total == nil {
		if gerr := resp.graphErr(); gerr != nil {
			return 0, errors.Wrap(ErrTotalMissing, gerr.Error())
		}
		return 0, ErrTotalMissing
	}
	total := *resp.Data.Category.Total
	obs.Logger.Info("category total fetched", "stage", "ingestion", "slug", doc.Variables.Slug, "total", total)
	return total, nil
}

// FetchProducts returns data.category.products for the page described by
// doc.Variables. An absent product list is an empty result, not an error,
// unless the API reported GraphQL errors.
func (c *Client) FetchProducts(ctx context.Context, doc model.QueryDocument) ([]model.Product, error) {
	resp, err := c.post(ctx, doc)
	if err != nil {
		return []model.Product{}, err
	}
	if resp.Data == nil || resp.Data.Category == nil {
		if gerr := resp.graphErr(); gerr != nil {
			return []model.Product{}, gerr
		}
		return []model.Product{}, nil
	}
	products := decodeProductRecords(resp.Data.Category.Products)
	obs.Logger.Info("category products fetched", "stage", "ingestion", "slug", doc.Variables.Slug, "count", len(products))
	return products, nil
}

// decodeProductRecords decodes each record on its own so one malformed record
// only drops itself. Order is preserved.
func decodeProductRecords(raw []json.RawMessage) []model.Product {
	products := make([]model.Product, 0, len(raw))
	for i, r := range raw {
		var p model.Product
		if err := json.Unmarshal(r, &p); err != nil {
			obs.Logger.Warn("skipping malformed product", "stage", "ingestion", "index", i,
				"record", truncate(string(r), 200), "error", err)
			continue
		}
		products = append(products, p)
	}
	return products
}

func (c *Client) post(ctx context.Context, doc model.QueryDocument) (*categoryResponse, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	obs.Logger.Debug("posting catalog query", "stage", "ingestion", "url", c.URL, "size", doc.Variables.Size)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "post catalog query")
	}
	defer res.Body.Close()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: truncate(string(bodyBytes), 200)}
	}

	var out categoryResponse
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &out, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
