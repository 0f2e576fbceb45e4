package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

const redisImage = "redis:8-alpine"

// SetupRedisContainer starts a throwaway redis and skips the test when the
// container runtime is unavailable.
func SetupRedisContainer(ctx context.Context, t *testing.T) (*redis.Client, func()) {
	t.Helper()

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("failed to start redis container: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, redisImage)
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	cleanup := func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}

		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	}

	return client, cleanup
}

// MustCatalog builds a catalog in the given order or fails the test.
func MustCatalog(t *testing.T, ads ...domain.Advertisement) *domain.Catalog {
	t.Helper()

	c, err := domain.NewCatalog(ads...)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

// SampleCatalog has one advertisement per selection tier:
// ad_01 for male_adult, ad_02 for rainy_day and ad_03 tagged all.
func SampleCatalog(t *testing.T) *domain.Catalog {
	t.Helper()

	return MustCatalog(t,
		domain.NewAdvertisement("ad_01", "videos/ad_01.mp4", []string{"male_adult"}),
		domain.NewAdvertisement("ad_02", "videos/ad_02.mp4", []string{"rainy_day"}),
		domain.NewAdvertisement("ad_03", "videos/ad_03.mp4", []string{"all"}),
	)
}

// WriteFile writes content into a temporary directory and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
