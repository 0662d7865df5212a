package fetcher

import (
	"context"
	"net/http"
)

//go:generate moq -out mock/http_client.go -pkg mock . HTTPClient

// HTTPClient contains the required methods from the dp-net HTTP client
type HTTPClient interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}
