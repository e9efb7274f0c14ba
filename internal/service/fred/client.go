package fred

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	"MacroPull/pkg/cache"
	xhttp "MacroPull/pkg/http"
	"MacroPull/pkg/logger"
	"MacroPull/pkg/util"
)

const (
	seriesKeyPrefix = "fred:series"
	metaKeyPrefix   = "fred:meta"
)

// Fallback titles for offline metadata when nothing is cached.
var knownTitles = map[string]string{
	"OPHNFB":  "Output Per Hour of All Persons, Nonfarm Business Sector",
	"GDP":     "Gross Domestic Product",
	"CPROFIT": "Corporate Profits with IVA and CCAdj",
	"COE":     "Compensation of Employees, Paid",
}

// ErrNetworkDisabled is returned when a series is not cached and the
// client is running offline.
var ErrNetworkDisabled = errors.New("fred: network disabled and no cached data")

// Client fetches FRED series through a durable cache. With NoNetwork
// set it serves exclusively from cache and never touches the API.
type Client struct {
	apiKey       string
	baseURL      string
	http         *xhttp.Client
	cache        cache.Service
	cacheTTL     time.Duration
	noNetwork    bool
	forceRefresh bool
	log          *logger.Logger
	metrics      drepo.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithNoNetwork makes the client cache-only.
func WithNoNetwork(v bool) Option {
	return func(c *Client) { c.noNetwork = v }
}

// WithForceRefresh bypasses the cache on reads and refetches.
func WithForceRefresh(v bool) Option {
	return func(c *Client) { c.forceRefresh = v }
}

// WithCacheTTL sets the cache expiration for fetched series.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// WithMetrics attaches pipeline instrumentation.
func WithMetrics(m drepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a FRED client.
func New(apiKey, baseURL string, httpClient *xhttp.Client, cacheSvc cache.Service, log *logger.Logger, opts ...Option) (drepo.SeriesSource, error) {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		http:     httpClient,
		cache:    cacheSvc,
		cacheTTL: 24 * time.Hour,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" && !c.noNetwork {
		return nil, fmt.Errorf("fred: api key required when network is enabled")
	}
	return c, nil
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

type seriesResponse struct {
	Seriess []struct {
		ID                 string `json:"id"`
		Title              string `json:"title"`
		Units              string `json:"units"`
		Frequency          string `json:"frequency"`
		SeasonalAdjustment string `json:"seasonal_adjustment"`
		LastUpdated        string `json:"last_updated"`
	} `json:"seriess"`
}

// Series returns the full observation history for a series id, from
// cache when possible.
func (c *Client) Series(ctx context.Context, id string) (*models.ObservationSeries, error) {
	key := cache.GenerateKey(seriesKeyPrefix, id)

	if !c.forceRefresh {
		var cached models.ObservationSeries
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			c.recordFetched(id, "cache")
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.Warn("series cache read failed", logger.String("series", id), logger.Error(err))
		}
	}

	if c.noNetwork {
		c.recordError("network_disabled")
		return nil, fmt.Errorf("%w: %s", ErrNetworkDisabled, id)
	}

	series, err := c.fetchSeries(ctx, id)
	if err != nil {
		c.recordError("fetch")
		return nil, err
	}

	if err := c.cache.Set(ctx, key, series, c.cacheTTL); err != nil {
		c.log.Warn("series cache write failed", logger.String("series", id), logger.Error(err))
	}
	c.recordFetched(id, "api")
	c.log.Info("fetched series",
		logger.String("series", id),
		logger.Int("observations", series.Len()))
	return series, nil
}

// Metadata returns series metadata. Offline with no cache entry it
// falls back to a minimal record rather than failing the run.
func (c *Client) Metadata(ctx context.Context, id string) (*models.SeriesMeta, error) {
	key := cache.GenerateKey(metaKeyPrefix, id)

	var cached models.SeriesMeta
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	if c.noNetwork {
		title := knownTitles[id]
		if title == "" {
			title = id
		}
		return &models.SeriesMeta{ID: id, Title: title}, nil
	}

	meta, err := c.fetchMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, meta, c.cacheTTL); err != nil {
		c.log.Warn("metadata cache write failed", logger.String("series", id), logger.Error(err))
	}
	return meta, nil
}

func (c *Client) fetchSeries(ctx context.Context, id string) (*models.ObservationSeries, error) {
	var resp observationsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/series/observations",
		QueryParams: map[string][]string{
			"series_id": {id},
			"api_key":   {c.apiKey},
			"file_type": {"json"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fred observations %s: %w", id, err)
	}
	if len(resp.Observations) == 0 {
		return nil, fmt.Errorf("fred observations %s: empty series", id)
	}

	obs := make([]models.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		// FRED encodes missing values as ".".
		if o.Value == "." {
			continue
		}
		date, ok := util.ParseDate(o.Date)
		if !ok {
			return nil, fmt.Errorf("fred observations %s: bad date %q", id, o.Date)
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("fred observations %s: bad value %q at %s: %w", id, o.Value, o.Date, err)
		}
		obs = append(obs, models.Observation{Date: date, Value: v})
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("fred observations %s: all values missing", id)
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return &models.ObservationSeries{ID: id, Observations: obs}, nil
}

func (c *Client) fetchMetadata(ctx context.Context, id string) (*models.SeriesMeta, error) {
	var resp seriesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/series",
		QueryParams: map[string][]string{
			"series_id": {id},
			"api_key":   {c.apiKey},
			"file_type": {"json"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fred series %s: %w", id, err)
	}
	if len(resp.Seriess) == 0 {
		return nil, fmt.Errorf("fred series %s: no metadata returned", id)
	}
	s := resp.Seriess[0]
	return &models.SeriesMeta{
		ID:                 s.ID,
		Title:              s.Title,
		Units:              s.Units,
		Frequency:          s.Frequency,
		SeasonalAdjustment: s.SeasonalAdjustment,
		LastUpdated:        s.LastUpdated,
	}, nil
}

func (c *Client) recordFetched(id, source string) {
	if c.metrics != nil {
		c.metrics.RecordSeriesFetched(id, source)
	}
}

func (c *Client) recordError(kind string) {
	if c.metrics != nil {
		c.metrics.RecordError(kind)
	}
}
