package requests

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ryanuo/aug-calc/src/utils"
)

// ExternalAPIService is a struct representing a configurable external service
type ExternalAPIService struct {
	client    *http.Client
	userAgent string
}

// NewExternalAPIService creates a new instance of ExternalAPIService. A nil client
// gets a default one bounded by timeout.
func NewExternalAPIService(client *http.Client, timeout time.Duration) *ExternalAPIService {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &ExternalAPIService{client: client, userAgent: "aug-calc/1.0"}
}

// makeRequest is a helper function to make HTTP requests, supporting optional query parameters
func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint, token string, params url.Values) (*http.Response, error) {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, utils.NewHTTPError(resp.StatusCode, resp.Status)
	}
	return resp, nil
}

// Get makes a GET request to the external service. Non-2xx answers come back as *utils.HTTPError.
func (s *ExternalAPIService) Get(ctx context.Context, endpoint, token string, params url.Values) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodGet, endpoint, token, params)
}
