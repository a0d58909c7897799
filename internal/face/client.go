package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"verident/pkg/sentinel"
)

// HTTPProvider reaches the external face detection/encoding service. The
// service accepts an encoded image and returns one embedding per detected
// face, in detection order.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider builds a provider against the given base URL. A nil client
// falls back to a client with a bounded timeout; the orchestrator's branch
// timeout is the effective ceiling either way.
func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPProvider{baseURL: baseURL, client: client}
}

type encodeResponse struct {
	Embeddings []Embedding `json:"embeddings"`
}

// DetectAndEncode submits the image and decodes the returned embeddings.
// Transport failures and 5xx responses surface sentinel.ErrUnavailable;
// rejections of the payload surface sentinel.ErrDecode.
func (p *HTTPProvider) DetectAndEncode(ctx context.Context, image []byte) ([]Embedding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/encodings", bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("build encode request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		// Keep the transport error in the chain so callers can tell a branch
		// timeout apart from an outage.
		return nil, fmt.Errorf("%w: face service: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: face service rejected payload", sentinel.ErrDecode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: face service returned %d", sentinel.ErrUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("face service returned unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read encode response: %w", err)
	}
	var decoded encodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode encode response: %w", err)
	}
	return decoded.Embeddings, nil
}
