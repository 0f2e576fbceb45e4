package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/logging"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/tracing"
)

const (
	DefaultBaseURL = "http://api.openweathermap.org"
	DefaultTimeout = 5 * time.Second

	currentWeatherPath = "/data/2.5/weather"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) CurrentConditions(ctx context.Context, city string) (*Conditions, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = currentWeatherPath
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	ctx, span := tracing.StartExternalAPISpan(ctx, "current_weather", u.Scheme+"://"+u.Host+u.Path)
	defer span.End()

	slog.DebugContext(ctx, "fetching current weather",
		slog.String("city", city),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set(logging.RequestIDHeader, requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send request to weather API",
			slog.String("city", city),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.ErrorContext(ctx, "unexpected status code from weather API",
			slog.String("city", city),
			slog.Int("status_code", resp.StatusCode),
		)
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		tracing.RecordError(span, err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload currentWeatherResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to decode response from weather API",
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	conditions := payload.toConditions(city)
	tracing.RecordError(span, nil)

	slog.DebugContext(ctx, "fetched current weather",
		slog.String("city", conditions.City),
		slog.String("main", conditions.Main),
	)

	return conditions, nil
}
