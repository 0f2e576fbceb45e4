package catalogsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/selection"
	"github.com/KasumiMercury/primind-crowd-signage/internal/testutil"
)

func TestReloadPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := domain.NewMockCatalogLoader(ctrl)
	catalog := testutil.MustCatalog(t, domain.NewAdvertisement("ad_01", "a.mp4", []string{"all"}))

	loader.EXPECT().LoadCatalog(gomock.Any()).Return(catalog, nil)

	snapshot := selection.NewSnapshot(nil)
	r := NewReloader(loader, "file", snapshot, nil)

	res, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if res.Size != 1 || res.Version != 2 {
		t.Errorf("Reload() = %+v, want size 1 version 2", res)
	}
	if snapshot.Current() != catalog {
		t.Error("snapshot does not hold the loaded catalog")
	}
}

func TestReloadFailureKeepsPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := domain.NewMockCatalogLoader(ctrl)
	catalog := testutil.MustCatalog(t, domain.NewAdvertisement("ad_01", "a.mp4", []string{"all"}))

	gomock.InOrder(
		loader.EXPECT().LoadCatalog(gomock.Any()).Return(catalog, nil),
		loader.EXPECT().LoadCatalog(gomock.Any()).Return(nil, errors.New("disk gone")),
	)

	snapshot := selection.NewSnapshot(nil)
	r := NewReloader(loader, "file", snapshot, nil)
	ctx := context.Background()

	if _, err := r.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, err := r.Reload(ctx); err == nil {
		t.Fatal("Reload() error = nil, want error")
	}
	if snapshot.Current() != catalog {
		t.Error("failed reload replaced the previous catalog")
	}
}

func TestReloadInitialFailurePublishesEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := domain.NewMockCatalogLoader(ctrl)

	loader.EXPECT().LoadCatalog(gomock.Any()).Return(nil, domain.ErrCatalogNotFound)

	snapshot := selection.NewSnapshot(nil)
	r := NewReloader(loader, "file", snapshot, nil)

	_, err := r.Reload(context.Background())
	if !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Errorf("Reload() error = %v, want ErrCatalogNotFound", err)
	}
	if snapshot.Current().Len() != 0 {
		t.Errorf("Len() = %d, want 0", snapshot.Current().Len())
	}
	if snapshot.Version() != 2 {
		t.Errorf("Version() = %d, want 2", snapshot.Version())
	}
}

type writableLoader struct {
	*domain.MockCatalogLoader
	*domain.MockCatalogWriter
}

func TestReplace(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := testutil.MustCatalog(t, domain.NewAdvertisement("ad_02", "b.mp4", []string{"20s_male"}))

	t.Run("read-only source", func(t *testing.T) {
		r := NewReloader(domain.NewMockCatalogLoader(ctrl), "file", selection.NewSnapshot(nil), nil)
		if r.Writable() {
			t.Error("Writable() = true, want false")
		}
		if _, err := r.Replace(context.Background(), catalog); !errors.Is(err, domain.ErrCatalogReadOnly) {
			t.Errorf("Replace() error = %v, want ErrCatalogReadOnly", err)
		}
	})

	t.Run("writable source", func(t *testing.T) {
		loader := writableLoader{
			MockCatalogLoader: domain.NewMockCatalogLoader(ctrl),
			MockCatalogWriter: domain.NewMockCatalogWriter(ctrl),
		}
		loader.MockCatalogWriter.EXPECT().SaveCatalog(gomock.Any(), catalog).Return(nil)

		snapshot := selection.NewSnapshot(nil)
		r := NewReloader(loader, "redis", snapshot, nil)

		res, err := r.Replace(context.Background(), catalog)
		if err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		if res.Size != 1 {
			t.Errorf("Size = %d, want 1", res.Size)
		}
		if snapshot.Current() != catalog {
			t.Error("snapshot does not hold the replacement catalog")
		}
	})

	t.Run("save failure does not publish", func(t *testing.T) {
		loader := writableLoader{
			MockCatalogLoader: domain.NewMockCatalogLoader(ctrl),
			MockCatalogWriter: domain.NewMockCatalogWriter(ctrl),
		}
		loader.MockCatalogWriter.EXPECT().SaveCatalog(gomock.Any(), catalog).Return(errors.New("redis down"))

		snapshot := selection.NewSnapshot(nil)
		r := NewReloader(loader, "redis", snapshot, nil)

		if _, err := r.Replace(context.Background(), catalog); err == nil {
			t.Fatal("Replace() error = nil, want error")
		}
		if snapshot.Version() != 1 {
			t.Errorf("Version() = %d, want 1", snapshot.Version())
		}
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := domain.NewMockCatalogLoader(ctrl)
	loader.EXPECT().LoadCatalog(gomock.Any()).Return(domain.EmptyCatalog(), nil).AnyTimes()

	r := NewReloader(loader, "file", selection.NewSnapshot(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
