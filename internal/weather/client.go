package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/config"
	"github.com/joyal-jij0/pragati/internal/logging"
)

// ErrUnavailable reports that the upstream weather API could not be reached
// or answered with a failure status.
var ErrUnavailable = errors.New("weather service unavailable")

// ResponseCache is the cache surface the client needs; *Cache implements it.
type ResponseCache interface {
	Get(ctx context.Context, location string) (*Response, error)
	Set(ctx context.Context, location string, resp *Response) error
}

// Client fetches weather data for a location, consulting the cache first.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      ResponseCache
	logger     logging.Logger
}

// NewClient builds a weather client. cache may be nil, in which case every
// request goes upstream.
func NewClient(cfg config.WeatherConfig, cache ResponseCache, logger logging.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		cache:      cache,
		logger:     logger.With("component", "weather"),
	}
}

// Fetch returns reshaped weather data for location.
func (c *Client) Fetch(ctx context.Context, location string) (*Response, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, &common.ValidationError{Field: "location", Reason: "must not be empty"}
	}
	if c.apiKey == "" {
		c.logger.Error(ctx, "weather api key is not configured")
		return nil, common.ErrInternal
	}

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, location)
		if err != nil {
			c.logger.Warn(ctx, "weather cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	reqURL := fmt.Sprintf("%s/%s?key=%s&unitGroup=metric&include=days,hours,current",
		c.baseURL, url.PathEscape(location), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "weather request failed", "location", location, "error", err)
		return nil, ErrUnavailable
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		c.logger.Error(ctx, "weather api returned failure status",
			"location", location, "status", httpResp.StatusCode)
		return nil, ErrUnavailable
	}

	var raw vcResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&raw); err != nil {
		c.logger.Error(ctx, "weather response decode failed", "error", err)
		return nil, ErrUnavailable
	}

	resp := reshape(&raw, location)

	if c.cache != nil {
		if err := c.cache.Set(ctx, location, resp); err != nil {
			c.logger.Warn(ctx, "weather cache write failed", "error", err)
		}
	}

	return resp, nil
}

func reshape(raw *vcResponse, location string) *Response {
	resolved := raw.ResolvedAddress
	if resolved == "" {
		resolved = location
	}

	resp := &Response{
		ResolvedAddress: resolved,
		Current: Current{
			LastUpdated:      raw.CurrentConditions.Datetime,
			LastUpdatedEpoch: raw.CurrentConditions.DatetimeEpoch,
			TempC:            raw.CurrentConditions.Temp,
			TempF:            raw.CurrentConditions.Temp*9/5 + 32,
			FeelslikeC:       raw.CurrentConditions.Feelslike,
			FeelslikeF:       raw.CurrentConditions.Feelslike*9/5 + 32,
			Condition: Condition{
				Text: raw.CurrentConditions.Conditions,
				Icon: raw.CurrentConditions.Icon,
			},
			WindKph:  raw.CurrentConditions.Windspeed * 3.6,
			WindDir:  raw.CurrentConditions.Winddir,
			Humidity: raw.CurrentConditions.Humidity,
			PrecipMm: raw.CurrentConditions.Precip,
			UV:       raw.CurrentConditions.Uvindex,
		},
	}

	for _, d := range raw.Days {
		hours := make([]Hour, 0, len(d.Hours))
		for _, h := range d.Hours {
			hours = append(hours, Hour{
				TimeEpoch:  h.DatetimeEpoch,
				Time:       h.Datetime,
				TempC:      h.Temp,
				IsDay:      isDay(h.Icon),
				Condition:  Condition{Text: h.Conditions, Icon: h.Icon},
				WindKph:    h.Windspeed * 3.6,
				Humidity:   h.Humidity,
				PrecipMm:   h.Precip,
				FeelslikeC: h.Feelslike,
				UV:         h.Uvindex,
			})
		}
		resp.Forecast.Forecastday = append(resp.Forecast.Forecastday, ForecastDay{
			Date:      d.Datetime,
			DateEpoch: d.DatetimeEpoch,
			Day: Day{
				MaxtempC:          d.Tempmax,
				MintempC:          d.Tempmin,
				AvgtempC:          d.Temp,
				Condition:         Condition{Text: d.Conditions, Icon: d.Icon},
				DailyChanceOfRain: d.Precipprob,
				TotalprecipMm:     d.Precip,
				MaxwindKph:        d.Windspeed * 3.6,
				Avghumidity:       d.Humidity,
				UV:                d.Uvindex,
			},
			Astro: Astro{Sunrise: d.Sunrise, Sunset: d.Sunset},
			Hour:  hours,
		})
	}

	return resp
}

func isDay(icon string) int {
	if strings.HasSuffix(icon, "-day") {
		return 1
	}
	return 0
}
