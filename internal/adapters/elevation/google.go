// Package elevation provides elevation lookup adapters.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobrunner/altus/internal/domain"
	"github.com/jobrunner/altus/internal/ports/output"
)

// DefaultBatchSize is the number of points resolved per request.
const DefaultBatchSize = 100

// Config holds elevation provider configuration.
type Config struct {
	BaseURL   string
	APIKey    string
	BatchSize int
	Timeout   time.Duration
}

// GoogleClient implements ElevationProvider against the Google Maps
// Elevation API. Failed batches degrade to NaN markers instead of
// failing the whole lookup; the markers are repaired downstream.
type GoogleClient struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	batchSize int
	logger    *slog.Logger
	metrics   output.MetricsCollector
}

// NewGoogleClient creates a new elevation client.
func NewGoogleClient(cfg Config, logger *slog.Logger, metrics output.MetricsCollector) *GoogleClient {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if metrics == nil {
		metrics = &output.NoOpMetrics{}
	}

	return &GoogleClient{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		batchSize: batchSize,
		logger:    logger,
		metrics:   metrics,
	}
}

// Elevations resolves grid point elevations in batches. A batch that
// fails or returns an unusable payload marks all of its points NaN and
// the lookup continues with the next batch. Only context cancellation
// aborts the whole operation.
func (c *GoogleClient) Elevations(ctx context.Context, points []domain.GridPoint) ([]float64, error) {
	out := make([]float64, len(points))

	for start := 0; start < len(points); start += c.batchSize {
		end := start + c.batchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]
		index := start / c.batchSize

		began := time.Now()
		values, err := c.fetchBatch(ctx, index, batch)
		c.metrics.ObserveElevationDuration(time.Since(began))

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.metrics.IncElevationBatches(false)
			c.logger.Warn("elevation batch failed, marking points invalid",
				"batch", index,
				"size", len(batch),
				"error", err)
			for i := start; i < end; i++ {
				out[i] = math.NaN()
			}
			continue
		}

		c.metrics.IncElevationBatches(true)
		copy(out[start:end], values)
	}

	return out, nil
}

// fetchBatch resolves one batch of at most batchSize points.
func (c *GoogleClient) fetchBatch(ctx context.Context, index int, batch []domain.GridPoint) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.batchURL(batch), nil)
	if err != nil {
		return nil, &domain.ProviderError{Batch: index, Size: len(batch), Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Batch: index, Size: len(batch), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{
			Batch: index,
			Size:  len(batch),
			Err:   fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var payload struct {
		Results []struct {
			Elevation float64 `json:"elevation"`
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &domain.ProviderError{Batch: index, Size: len(batch), Err: err}
	}

	if len(payload.Results) != len(batch) {
		return nil, &domain.ProviderError{
			Batch: index,
			Size:  len(batch),
			Err:   fmt.Errorf("response holds %d results, status %q", len(payload.Results), payload.Status),
		}
	}

	values := make([]float64, len(batch))
	for i, r := range payload.Results {
		values[i] = r.Elevation
	}
	return values, nil
}

// batchURL builds the request URL with pipe-separated lat,lon pairs.
func (c *GoogleClient) batchURL(batch []domain.GridPoint) string {
	var locations strings.Builder
	for i, p := range batch {
		if i > 0 {
			locations.WriteByte('|')
		}
		locations.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
		locations.WriteByte(',')
		locations.WriteString(strconv.FormatFloat(p.Lon, 'f', -1, 64))
	}

	params := url.Values{}
	params.Set("locations", locations.String())
	params.Set("key", c.apiKey)
	return c.baseURL + "?" + params.Encode()
}
