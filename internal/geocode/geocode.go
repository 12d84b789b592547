// Package geocode resolves street addresses to coordinates with a
// Nominatim search endpoint. Results are cached in Redis and outbound calls
// are rate limited to respect the Nominatim usage policy.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/effiwise/effimappro/internal/metrics"
	"github.com/effiwise/effimappro/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultURL is the public Nominatim instance
const DefaultURL = "https://nominatim.openstreetmap.org"

// DefaultUserAgent identifies the application to Nominatim
const DefaultUserAgent = "EffiMapPro/1.0 (support@effiwise.com)"

// Messages shown to the user
const (
	MsgNotFound = "Address not found"
	MsgFailed   = "Failed to geocode address"
)

var (
	// ErrNotFound is returned when the search has no result
	ErrNotFound = errors.New("address not found")
	// ErrFailed wraps transport and decoding failures
	ErrFailed = errors.New("geocode failed")
)

const cachePrefix = "geocode:"

// Message maps a Geocode error to the message shown to the user
func Message(err error) string {
	if errors.Is(err, ErrNotFound) {
		return MsgNotFound
	}
	return MsgFailed
}

// Config holds the geocoder settings
type Config struct {
	BaseURL   string
	UserAgent string
	RPS       float64
	CacheTTL  time.Duration
	Timeout   time.Duration
}

// Client is a caching, rate limited Nominatim client
type Client struct {
	cfg     Config
	http    *http.Client
	cache   *redis.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// New creates a Client. cache may be nil to disable caching.
func New(cfg Config, cache *redis.Client, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		logger:  logger,
	}
}

func cacheKey(address string) string {
	return cachePrefix + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Geocode returns the coordinates of the first search result for address
func (c *Client) Geocode(ctx context.Context, address string) (model.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return model.Coordinates{}, ErrNotFound
	}

	key := cacheKey(address)
	if c.cache != nil {
		if s, err := c.cache.Get(ctx, key).Result(); err == nil && s != "" {
			var cached model.Coordinates
			if json.Unmarshal([]byte(s), &cached) == nil {
				metrics.CacheHitsTotal.Inc()
				return cached, nil
			}
		} else if err != nil && !errors.Is(err, redis.Nil) {
			c.logger.Warn("Geocode cache read failed", zap.Error(err))
		}
		metrics.CacheMissesTotal.Inc()
	}

	coords, err := c.search(ctx, address)
	if err != nil {
		return model.Coordinates{}, err
	}

	if c.cache != nil {
		b, _ := json.Marshal(coords)
		if err := c.cache.Set(ctx, key, string(b), c.cfg.CacheTTL).Err(); err != nil {
			c.logger.Warn("Geocode cache write failed", zap.Error(err))
		}
	}
	return coords, nil
}

func (c *Client) search(ctx context.Context, address string) (model.Coordinates, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	metrics.GeocodeRequestsTotal.Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.GeocodeFailTotal.Inc()
		c.logger.Sugar().Errorf("Geocoding error: %v", err)
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer resp.Body.Close()
	metrics.GeocodeDurationMs.Observe(float64(time.Since(t0).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeFailTotal.Inc()
		return model.Coordinates{}, fmt.Errorf("%w: status %d", ErrFailed, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		metrics.GeocodeFailTotal.Inc()
		c.logger.Sugar().Errorf("Geocoding decode error: %v", err)
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if len(results) == 0 {
		return model.Coordinates{}, ErrNotFound
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		metrics.GeocodeFailTotal.Inc()
		return model.Coordinates{}, fmt.Errorf("%w: bad coordinates %q,%q", ErrFailed, results[0].Lat, results[0].Lon)
	}

	c.logger.Debug("Geocoded address",
		zap.String("address", address),
		zap.String("match", results[0].DisplayName),
		zap.Duration("duration", time.Since(t0)))
	return model.Coordinates{lat, lon}, nil
}
