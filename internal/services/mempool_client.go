package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"mining-engine/backend-go/internal/config"
	"mining-engine/backend-go/internal/models"
)

// MempoolClient talks to a mempool.space-compatible block explorer. Every
// call is a single-attempt GET with a short timeout; retries are left to the
// next refresh cycle.
type MempoolClient struct {
	baseURL string
	hc      *http.Client
}

func NewMempoolClient(cfg config.Config) *MempoolClient {
	return &MempoolClient{
		baseURL: strings.TrimRight(cfg.MempoolBaseURL, "/"),
		hc: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
	}
}

// Prices returns the currency-code to BTC-price map.
func (c *MempoolClient) Prices(ctx context.Context) (map[string]float64, error) {
	var out map[string]float64
	if err := c.fetchJSON(ctx, "/api/v1/prices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type mempoolFees struct {
	FastestFee  *int64 `json:"fastestFee"`
	HalfHourFee *int64 `json:"halfHourFee"`
	HourFee     *int64 `json:"hourFee"`
	EconomyFee  *int64 `json:"economyFee"`
	MinimumFee  *int64 `json:"minimumFee"`
}

// RecommendedFees returns the fee tiers; individual tiers missing from the
// payload stay nil.
func (c *MempoolClient) RecommendedFees(ctx context.Context) (models.RecommendedFees, error) {
	var raw mempoolFees
	if err := c.fetchJSON(ctx, "/api/v1/fees/recommended", &raw); err != nil {
		return models.RecommendedFees{}, err
	}
	return models.RecommendedFees{
		FastestFee:  raw.FastestFee,
		HalfHourFee: raw.HalfHourFee,
		HourFee:     raw.HourFee,
		EconomyFee:  raw.EconomyFee,
		MinimumFee:  raw.MinimumFee,
	}, nil
}

// TipHeight returns the chain tip height, parsed from a plain-text body.
func (c *MempoolClient) TipHeight(ctx context.Context) (int64, error) {
	body, err := c.fetchText(ctx, "/api/blocks/tip/height")
	if err != nil {
		return 0, err
	}
	height, err := strconv.ParseInt(strings.TrimSpace(body), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse tip height: %w", err)
	}
	return height, nil
}

// RecentBlocks returns the recent-blocks list as loosely typed objects; the
// caller picks difficulty and fee fields out of them.
func (c *MempoolClient) RecentBlocks(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.fetchJSON(ctx, "/api/v1/blocks", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MempoolClient) fetchJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("mempool api: %s", res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *MempoolClient) fetchText(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return "", fmt.Errorf("mempool api: %s", res.Status)
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, 1024))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
