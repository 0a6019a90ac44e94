package terminology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the interface to the external standardized coding system
type Client interface {
	SearchConcepts(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// HTTPClient talks to a SNOMED/ICD-style terminology service over HTTP
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// SearchRequest describes a paginated concept text search
type SearchRequest struct {
	Query       string
	SemanticTag string
	Limit       int
	Offset      int
}

// SearchResponse holds one page of concept matches
type SearchResponse struct {
	Items []Concept `json:"items"`
	Total int       `json:"total"`
}

// Concept is a single coding-system entry
type Concept struct {
	ConceptID     string `json:"conceptId"`
	Term          string `json:"term"`
	SemanticTag   string `json:"semanticTag"`
	BrandName     string `json:"brandName,omitempty"`
	SubstanceName string `json:"substanceName,omitempty"`
	DoseForm      string `json:"doseForm,omitempty"`
	Strength      string `json:"strength,omitempty"`
}

// NewClient creates a new terminology service client
func NewClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchConcepts runs a paginated text search against the coding system
func (c *HTTPClient) SearchConcepts(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	parsed, err := url.Parse(fmt.Sprintf("%s/concepts/search", c.baseURL))
	if err != nil {
		return nil, err
	}

	query := parsed.Query()
	query.Set("q", req.Query)
	if req.SemanticTag != "" {
		query.Set("semanticTag", req.SemanticTag)
	}
	if req.Limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		query.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	parsed.RawQuery = query.Encode()

	out := &SearchResponse{}
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("terminology service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}

	return nil
}
