package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stolikiApi/internal/modules/remarked/domain"
)

const defaultRequestTimeout = 30 * time.Second

// Gateway issues single JSON POST calls against the provider base URL and
// normalizes non-2xx answers into *domain.APIError. It never retries;
// retry policy, if any, belongs to callers.
type Gateway struct {
	baseURL string
	client  *http.Client
}

func NewGateway(baseURL string, timeout time.Duration, client *http.Client) *Gateway {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	} else {
		client.Timeout = timeout
	}
	return &Gateway{baseURL: trimmed, client: client}
}

// Send posts payload as JSON to endpoint and returns the raw response
// body. A transport timeout surfaces as domain.ErrGatewayTimeout, any
// non-2xx status as *domain.APIError.
func (g *Gateway) Send(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("remarked: encode request: %w", err)
	}

	target := g.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remarked: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			slog.Warn("remarked request timed out", slog.String("endpoint", endpoint), slog.Duration("timeout", g.client.Timeout))
			return nil, domain.ErrGatewayTimeout
		}
		return nil, fmt.Errorf("remarked: %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("remarked: read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, normalizeError(res.StatusCode, raw)
	}
	return raw, nil
}

func normalizeError(status int, raw []byte) *domain.APIError {
	var body struct {
		Message string `json:"message"`
	}
	// Best effort: an unparseable body keeps the class default message.
	_ = json.Unmarshal(raw, &body)
	return domain.NewAPIError(status, strings.TrimSpace(body.Message))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
