/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package growthapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/humaidq/growthwave/who"
)

// GrowthStandardsPath is the backend endpoint serving WHO percentile rows.
const GrowthStandardsPath = "/growth-standards"

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Client talks to the upstream REST backend.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials CredentialProvider
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// New returns a client for baseURL. A nil provider sends no credentials.
func New(baseURL string, creds CredentialProvider, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if creds == nil {
		creds = NoCredentials{}
	}

	c := &Client{
		BaseURL:     baseURL,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		Credentials: creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	token, err := c.Credentials.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get backend token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return resp.Body, nil
}

// FetchGrowthStandards downloads the WHO percentile rows. Rows the backend
// sends in a malformed shape are returned separately and do not fail the
// call.
func (c *Client) FetchGrowthStandards(ctx context.Context) ([]who.PercentileRow, []who.RowError, error) {
	body, err := c.get(ctx, GrowthStandardsPath)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	rows, rowErrs, err := who.ParseRowsJSON(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode growth standards: %w", err)
	}

	for _, rowErr := range rowErrs {
		logger.Warn("Skipping malformed growth standard row", "error", rowErr)
	}
	logger.Debug("Fetched growth standards", "rows", len(rows), "skipped", len(rowErrs))

	return rows, rowErrs, nil
}

// FetchReferenceTable downloads the rows and builds a table from them. It
// fails with ErrEmptyReference when no usable median row arrives, so an
// empty response never replaces a working table.
func (c *Client) FetchReferenceTable(ctx context.Context) (*who.ReferenceTable, error) {
	rows, _, err := c.FetchGrowthStandards(ctx)
	if err != nil {
		return nil, err
	}

	table := who.BuildReferenceTable(rows)
	if table.Len() == 0 {
		return nil, ErrEmptyReference
	}
	return table, nil
}
