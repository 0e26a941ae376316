package httpclient

import (
	"net/http"
	"time"
)

type HttpClient struct {
	client *http.Client
}

// NewHttpClient creates a client with the given timeout. A zero timeout
// leaves requests bounded only by their context.
func NewHttpClient(timeout time.Duration) *HttpClient {
	return &HttpClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (h *HttpClient) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}
