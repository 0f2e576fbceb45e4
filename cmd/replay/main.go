// Command replay runs recorded observation batches through the aggregation
// window and ad selection engine without the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/decisionrecorder"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/logging"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/aggregation"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/display"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/pipeline"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/selection"
)

var (
	catalogPath string
	contextRaw  string
	windowSize  int
	recordPath  string
	verbose     bool

	dominantGroup string
)

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay observation batches through the signage decision engine",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, logging.HandlerConfig{
			Environment: logging.EnvDev,
			Level:       level,
			Module:      logging.Module("replay"),
		})))
	},
}

var runCmd = &cobra.Command{
	Use:   "run [observations.jsonl]",
	Short: "Run one tick per input line and print each decision",
	Long: `Each input line is a JSON array of demographic tags observed in one tick,
for example ["male_adult","female_child"]. Reads stdin when no file or "-" is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		input := io.Reader(cmd.InOrStdin())
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open observations: %w", err)
			}
			defer f.Close()
			input = f
		}

		var recorder domain.DecisionRecorder
		if recordPath != "" {
			sqliteRecorder, err := decisionrecorder.NewSQLiteRecorder(ctx, recordPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := sqliteRecorder.Close(); err != nil {
					slog.Warn("failed to close decision log", slog.String("error", err.Error()))
				}
			}()
			recorder = sqliteRecorder
		}

		svc := newService(ctx, recorder)

		ticks, err := replayObservations(ctx, input, cmd.OutOrStdout(), svc)
		if err != nil {
			return err
		}

		slog.Info("replay finished", slog.Int("ticks", ticks))
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Run a single stateless selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := loadCatalog(cmd.Context(), catalogPath)
		sel := selection.Select(c, domain.Observation(dominantGroup), parseContextTags(contextRaw))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(selectionLine{
			AdID:       optional(sel.AdID),
			DisplayRef: optional(sel.DisplayRef),
			Reason:     sel.Reason.String(),
			Tier:       sel.Tier.String(),
		})
	},
}

func newService(ctx context.Context, recorder domain.DecisionRecorder) *pipeline.Service {
	snapshot := selection.NewSnapshot(loadCatalog(ctx, catalogPath))

	return pipeline.NewService(
		aggregation.NewSyncWindow(windowSize),
		selection.NewEngine(snapshot),
		staticContext(parseContextTags(contextRaw)),
		display.NewTracker(),
		nil,
		recorder,
		nil,
	)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "ad_db.json", "path to the ad catalog JSON file")
	rootCmd.PersistentFlags().StringVar(&contextRaw, "context", "", "comma separated context tags in priority order")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every decision to stderr")

	runCmd.Flags().IntVar(&windowSize, "window", 30, "number of ticks kept in the aggregation window")
	runCmd.Flags().StringVar(&recordPath, "record", "", "sqlite file to append decisions to")

	selectCmd.Flags().StringVar(&dominantGroup, "dominant", "", "dominant demographic group, empty for none")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(selectCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
