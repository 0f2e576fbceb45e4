package contexttag

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/weather"
)

// Provider reports the current context tags in the order [time, weather].
// The weather tag is cached and refreshed once refreshInterval has elapsed;
// a zero interval keeps the first result for the life of the provider.
type Provider struct {
	weather         weather.Repository
	city            string
	location        *time.Location
	refreshInterval time.Duration
	now             func() time.Time

	mu         sync.Mutex
	weatherTag domain.ContextTag
	fetchedAt  time.Time
}

type Option func(*Provider)

func WithLocation(loc *time.Location) Option {
	return func(p *Provider) {
		if loc != nil {
			p.location = loc
		}
	}
}

func WithRefreshInterval(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.refreshInterval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProvider returns a provider backed by repo. A nil repo reports
// default_weather without any lookup.
func NewProvider(repo weather.Repository, city string, opts ...Option) *Provider {
	p := &Provider{
		weather:  repo,
		city:     city,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Provider) Tags(ctx context.Context) []domain.ContextTag {
	return []domain.ContextTag{
		p.TimeTag(),
		p.WeatherTag(ctx),
	}
}

func (p *Provider) TimeTag() domain.ContextTag {
	return TimeOfDay(p.now().In(p.location))
}

func (p *Provider) WeatherTag(ctx context.Context) domain.ContextTag {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.weatherTag != "" && !p.stale() {
		return p.weatherTag
	}

	p.weatherTag = p.fetch(ctx)
	p.fetchedAt = p.now()

	return p.weatherTag
}

// Refresh drops the cached weather tag so the next lookup fetches again.
func (p *Provider) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.weatherTag = ""
	p.fetchedAt = time.Time{}
}

func (p *Provider) stale() bool {
	if p.refreshInterval <= 0 {
		return false
	}

	return p.now().Sub(p.fetchedAt) >= p.refreshInterval
}

func (p *Provider) fetch(ctx context.Context) domain.ContextTag {
	if p.weather == nil {
		return domain.TagDefaultWeather
	}

	conditions, err := p.weather.CurrentConditions(ctx, p.city)
	if err != nil {
		slog.WarnContext(ctx, "weather lookup failed",
			slog.String("event", "context.weather.fail"),
			slog.String("city", p.city),
			slog.String("error", err.Error()),
		)
		return domain.TagWeatherError
	}

	tag := WeatherTag(conditions.Main)

	slog.InfoContext(ctx, "weather context updated",
		slog.String("event", "context.weather.update"),
		slog.String("city", p.city),
		slog.String("condition", conditions.Main),
		slog.String("tag", tag.String()),
	)

	return tag
}
