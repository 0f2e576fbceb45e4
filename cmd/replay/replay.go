package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/catalog"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/pipeline"
)

const maxLineBytes = 1 << 20

var ErrInvalidObservationLine = errors.New("observation line must be a JSON array of strings")

// staticContext serves the same context tags for every tick.
type staticContext []domain.ContextTag

func (s staticContext) Tags(context.Context) []domain.ContextTag {
	return s
}

func parseContextTags(raw string) []domain.ContextTag {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return domain.ContextTagsFromStrings(parts)
}

// loadCatalog reads the catalog file. A missing or undecodable file yields an
// empty catalog so the replay still runs and reports "No Ad Found".
func loadCatalog(ctx context.Context, path string) *domain.Catalog {
	c, err := catalog.NewFileLoader(path).LoadCatalog(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load catalog, using empty catalog",
			slog.String("event", "replay.catalog.fail"),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return domain.EmptyCatalog()
	}
	return c
}

type decisionLine struct {
	Tick        int            `json:"tick"`
	DecisionID  string         `json:"decision_id"`
	Dominant    *string        `json:"dominant_group"`
	Stats       map[string]int `json:"stats"`
	ContextTags []string       `json:"context_tags"`
	AdID        *string        `json:"ad_id"`
	DisplayRef  *string        `json:"display_ref"`
	Reason      string         `json:"reason"`
	Transition  string         `json:"transition"`
}

type selectionLine struct {
	AdID       *string `json:"ad_id"`
	DisplayRef *string `json:"display_ref"`
	Reason     string  `json:"reason"`
	Tier       string  `json:"tier"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// replayObservations feeds one JSON array of tags per input line through svc
// and writes one JSON decision per line to w. Blank lines are skipped.
func replayObservations(ctx context.Context, r io.Reader, w io.Writer, svc *pipeline.Service) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(w)

	ticks := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var tags []string
		if err := json.Unmarshal([]byte(line), &tags); err != nil {
			return ticks, fmt.Errorf("line %d: %w: %w", lineNo, ErrInvalidObservationLine, err)
		}

		result, err := svc.Tick(ctx, domain.NewObservationBatch(tags))
		if err != nil {
			return ticks, fmt.Errorf("line %d: %w", lineNo, err)
		}
		ticks++

		out := decisionLine{
			Tick:        ticks,
			DecisionID:  result.DecisionID,
			Dominant:    optional(result.Dominant.String()),
			Stats:       result.Stats.AsStrings(),
			ContextTags: domain.ContextTagsToStrings(result.ContextTags),
			AdID:        optional(result.Selection.AdID),
			DisplayRef:  optional(result.Selection.DisplayRef),
			Reason:      result.Selection.Reason.String(),
			Transition:  result.Transition.String(),
		}
		if err := enc.Encode(out); err != nil {
			return ticks, fmt.Errorf("failed to write decision: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return ticks, fmt.Errorf("failed to read observations: %w", err)
	}

	return ticks, nil
}
