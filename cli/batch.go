package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/output"
	"github.com/CodMac/go-treesitter-code-tokenizer/processor"
)

var (
	batchInclude []string
	batchIgnore  []string
	batchWorkers int
	batchOut     string
	batchQuiet   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Process every matching file under a directory into JSONL",
	Long: `Batch discovers files under <dir> by glob, processes them concurrently
and writes one JSON object per file: {"path","mode","output","error"}.

Examples:
  # extract sequences of every .java file into results.jsonl
  codetok batch ./src --out results.jsonl

  # rewrite mode, skipping tests
  CODETOK_MODE=rewrite codetok batch . --ignore "**/test/**"`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringSliceVar(&batchInclude, "include", nil, "glob patterns to include (default from config)")
	batchCmd.Flags().StringSliceVar(&batchIgnore, "ignore", nil, "glob patterns to ignore, added to config")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "number of workers (default from config)")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "output JSONL file (default stdout)")
	batchCmd.Flags().BoolVarP(&batchQuiet, "quiet", "q", false, "disable the progress bar")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode, err := model.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	lang, err := language()
	if err != nil {
		return err
	}

	includes := cfg.Batch.Include
	if len(batchInclude) > 0 {
		includes = batchInclude
	}
	ignores := append(append([]string{}, cfg.Batch.Ignore...), batchIgnore...)
	workers := cfg.Batch.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	discovery, err := processor.NewFileDiscovery(args[0], lang, includes, ignores)
	if err != nil {
		return err
	}
	paths, err := discovery.DiscoverFiles()
	if err != nil {
		return fmt.Errorf("failed to discover files: %w", err)
	}
	if len(paths) == 0 {
		slog.Warn("batch.empty", "dir", args[0])
		return nil
	}

	gc, err := globalContext(lang)
	if err != nil {
		return err
	}

	bp := processor.NewBatchProcessor(lang, mode, cfg.Options(), workers, gc)
	if !batchQuiet {
		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Processing files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
		bp.OnResult = func(processor.Result) {
			_ = bar.Add(1)
		}
	}

	start := time.Now()
	results, err := bp.ProcessFiles(ctx, paths)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Output == model.ErrorMessage {
			failed++
		}
	}
	slog.Info("batch.done", "files", len(results), "failed", failed, "workers", bp.Workers, "elapsed", time.Since(start))

	if batchOut == "" {
		writer := output.NewJSONLWriter(cmd.OutOrStdout())
		for _, r := range results {
			if err := writer.Write(r); err != nil {
				return err
			}
		}
		return nil
	}

	n, err := output.ExportResults(batchOut, results)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", batchOut, err)
	}
	slog.Info("batch.export", "path", batchOut, "rows", n)
	return nil
}
