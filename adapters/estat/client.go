// Package estat is the HTTP adapter for the statistical data API. It
// issues one GET per sub-selection and normalizes the JSON-stat payload
// into cells before the merger sees it.
package estat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"eurobase/core/types"
	"eurobase/internal/config"
	"eurobase/internal/errors"
	"eurobase/internal/logging"
)

// Client executes sub-requests against the JSON data API. It implements
// engine.Executor. The client does not retry; transient failures are the
// caller's problem to surface or tolerate.
type Client struct {
	baseURL string
	lang    string
	httpc   *http.Client
}

// NewClient creates a data API client from service configuration
func NewClient(cfg config.ServiceConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		lang:    cfg.Language,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// RequestURL builds the GET URL for one sub-selection. Restricted
// dimensions become repeated query parameters in declared dimension
// order; unrestricted dimensions are omitted, which the service reads as
// "all codes".
func (c *Client) RequestURL(ds *types.Dataset, sub types.Selection) string {
	var q strings.Builder
	q.WriteString("format=JSON")
	if c.lang != "" {
		q.WriteString("&lang=" + strings.ToUpper(c.lang))
	}
	for i := range ds.Dimensions {
		name := ds.Dimensions[i].Name
		codes, ok := sub[name]
		if !ok || len(codes) == 0 {
			continue
		}
		for _, code := range codes {
			q.WriteString("&" + url.QueryEscape(name) + "=" + url.QueryEscape(code))
		}
	}
	return fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(ds.Code), q.String())
}

// Execute implements engine.Executor
func (c *Client) Execute(ctx context.Context, ds *types.Dataset, sub types.Selection) ([]types.Cell, error) {
	reqURL := c.RequestURL(ds, sub)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Transport("build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Transport("execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport("read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		if isQuotaRejection(resp.StatusCode, body) {
			return nil, errors.QuotaExceeded(
				fmt.Sprintf("service rejected request for %s: %s", ds.Code, strings.TrimSpace(string(body)))).
				WithContext("url", reqURL)
		}
		return nil, errors.Transport(
			fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, ds.Code), nil).
			WithContext("url", reqURL)
	}

	cells, err := ParsePayload(ds, body)
	if err != nil {
		return nil, err
	}
	logging.Debug("sub-request completed",
		zap.String("dataset", ds.Code),
		zap.String("selection", sub.String()),
		zap.Int("cells", len(cells)),
	)
	return cells, nil
}

// isQuotaRejection recognizes the service's "too many categories"
// rejection. The service answers 413, older deployments answer 400 with
// an explanatory body.
func isQuotaRejection(status int, body []byte) bool {
	if status == http.StatusRequestEntityTooLarge {
		return true
	}
	if status == http.StatusBadRequest {
		msg := strings.ToLower(string(body))
		return strings.Contains(msg, "categor") &&
			(strings.Contains(msg, "exceed") || strings.Contains(msg, "too many"))
	}
	return false
}
