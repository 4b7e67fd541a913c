package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultBaseURL is the production Rainy Days catalog endpoint.
const DefaultBaseURL = "https://v2.api.noroff.dev/rainy-days"

// Client talks to the remote product catalog. All responses arrive
// wrapped in a {"data": ...} envelope; anything else is malformed.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL. An empty baseURL
// falls back to CATALOG_API_URL, then to the production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("CATALOG_API_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchAllProducts fetches the full catalog.
func (c *Client) FetchAllProducts(ctx context.Context) ([]Product, error) {
	body, err := c.get(ctx, c.baseURL)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Product `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &APIError{Kind: ErrMalformedResponse, Status: http.StatusOK, cause: err}
	}
	// A present-but-null or absent data field is malformed, not an
	// empty catalog.
	if !hasDataField(body) || envelope.Data == nil {
		return nil, &APIError{Kind: ErrMalformedResponse, Status: http.StatusOK,
			cause: fmt.Errorf("response missing data array")}
	}
	return envelope.Data, nil
}

// FetchProductByID fetches a single product.
func (c *Client) FetchProductByID(ctx context.Context, id string) (Product, error) {
	body, err := c.get(ctx, c.baseURL+"/"+id)
	if err != nil {
		return Product{}, err
	}

	var envelope struct {
		Data *Product `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Product{}, &APIError{Kind: ErrMalformedResponse, Status: http.StatusOK, cause: err}
	}
	if envelope.Data == nil {
		return Product{}, &APIError{Kind: ErrMalformedResponse, Status: http.StatusOK,
			cause: fmt.Errorf("response missing data object")}
	}
	return *envelope.Data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &APIError{Kind: ErrTransportFailure, cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: ErrTransportFailure, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: ErrTransportFailure, cause: err}
	}
	return body, nil
}

// hasDataField reports whether the top-level JSON object carries a
// non-null "data" key. json.Unmarshal alone cannot distinguish a
// missing key from a null one.
func hasDataField(body []byte) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return false
	}
	data, ok := raw["data"]
	return ok && !bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
