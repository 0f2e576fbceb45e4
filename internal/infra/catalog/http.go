package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/logging"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/tracing"
)

// HTTPLoader fetches the catalog document from a URL.
type HTTPLoader struct {
	url        string
	httpClient *http.Client
}

func NewHTTPLoader(catalogURL string) *HTTPLoader {
	return &HTTPLoader{
		url:        catalogURL,
		httpClient: newHTTPClient(audienceOf(catalogURL)),
	}
}

// audienceOf trims rawURL to its origin.
func audienceOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}

func (l *HTTPLoader) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "load_catalog", l.url)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set(logging.RequestIDHeader, requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch catalog",
			slog.String("url", l.url),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		err := fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, l.url)
		tracing.RecordError(span, err)
		return nil, err
	case resp.StatusCode != http.StatusOK:
		slog.ErrorContext(ctx, "unexpected status code when fetching catalog",
			slog.String("url", l.url),
			slog.Int("status_code", resp.StatusCode),
		)
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		tracing.RecordError(span, err)
		return nil, err
	}

	c, err := Decode(resp.Body)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	tracing.RecordError(span, nil)

	return c, nil
}

func (l *HTTPLoader) Source() string {
	return "http"
}
