package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/catalog"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/catalogsync"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/selection"
)

type CatalogHandler struct {
	snapshot *selection.Snapshot
	reloader *catalogsync.Reloader
}

func NewCatalogHandler(snapshot *selection.Snapshot, reloader *catalogsync.Reloader) *CatalogHandler {
	return &CatalogHandler{
		snapshot: snapshot,
		reloader: reloader,
	}
}

func (h *CatalogHandler) HandleGetCatalog(c *gin.Context) {
	current := h.snapshot.Current()

	ads := make([]AdvertisementResponse, 0, current.Len())
	for _, ad := range current.Advertisements() {
		tags := ad.Tags
		if tags == nil {
			tags = []string{}
		}
		ads = append(ads, AdvertisementResponse{
			ID:       ad.ID,
			FilePath: ad.DisplayRef,
			Tags:     tags,
		})
	}

	c.JSON(http.StatusOK, CatalogResponse{
		Source:         h.reloader.Source(),
		Version:        h.snapshot.Version(),
		Writable:       h.reloader.Writable(),
		Advertisements: ads,
	})
}

func (h *CatalogHandler) HandleReload(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.reloader.Reload(ctx)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrCatalogNotFound) {
			status = http.StatusNotFound
		}
		respondError(c, status, "reload_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, CatalogUpdateResponse{
		Version:        result.Version,
		Advertisements: result.Size,
	})
}

// HandleReplace accepts a catalog document in the same format as the
// catalog file and stores it through a writable source.
func (h *CatalogHandler) HandleReplace(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.reloader.Writable() {
		respondError(c, http.StatusMethodNotAllowed, "read_only", domain.ErrCatalogReadOnly.Error())
		return
	}

	next, err := catalog.Decode(c.Request.Body)
	if err != nil {
		slog.WarnContext(ctx, "catalog document rejected",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.reloader.Replace(ctx, next)
	if err != nil {
		slog.ErrorContext(ctx, "failed to replace catalog",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, "replace_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, CatalogUpdateResponse{
		Version:        result.Version,
		Advertisements: result.Size,
	})
}
