// Package client fetches the accounts API resources the dashboard renders.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmehdipour/insights/internal/model"
)

// Client is a thin JSON client for the accounts API. Requests are single
// attempts; a failure is returned to the caller as is.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetSummary(ctx context.Context) (model.Summary, error) {
	var out model.Summary
	err := c.get(ctx, "/summary", nil, &out)
	return out, err
}

func (c *Client) GetIngestionReport(ctx context.Context) (model.IngestionReport, error) {
	var out model.IngestionReport
	err := c.get(ctx, "/ingestion-report", nil, &out)
	return out, err
}

func (c *Client) GetRecords(ctx context.Context, limit int) (model.RecordsPage, error) {
	var out model.RecordsPage
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	err := c.get(ctx, "/records", params, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("path=%s status=%d", path, res.StatusCode)
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
